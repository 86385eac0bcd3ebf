package progress

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/rescale/sheetconv/internal/constants"
)

// DownloadBar shows byte progress for a single result download. On
// non-terminal output it renders nothing.
type DownloadBar struct {
	progress *mpb.Progress
	bar      *mpb.Bar
	size     int64
	start    time.Time
}

// NewDownloadBar creates a bar for name on out. size may be -1 when the
// server did not send a length.
func NewDownloadBar(out io.Writer, name string, size int64) *DownloadBar {
	d := &DownloadBar{size: size, start: time.Now()}
	if !IsTerminal(out) {
		return d
	}

	total := size
	if total < 0 {
		total = 0
	}

	d.progress = mpb.New(
		mpb.WithOutput(out),
		mpb.WithRefreshRate(constants.DownloadRefreshRate),
		mpb.WithWidth(constants.ProgressBarWidth*2),
	)
	d.bar = d.progress.New(total,
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(filepath.Base(name), decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncSpace),
			decor.Name("  "),
			decor.EwmaSpeed(decor.SizeB1024(0), "% .1f", 30, decor.WCSyncSpace),
		),
		mpb.BarRemoveOnComplete(),
	)
	return d
}

// ProxyReader wraps r so reads advance the bar.
func (d *DownloadBar) ProxyReader(r io.Reader) io.Reader {
	if d.bar == nil {
		return r
	}
	return d.bar.ProxyReader(r)
}

// Complete finishes the bar and waits for the final render. It returns a
// one-line summary of the transfer.
func (d *DownloadBar) Complete(written int64, err error) string {
	if d.bar != nil {
		if err == nil {
			d.bar.SetTotal(-1, true)
		} else {
			d.bar.Abort(false)
		}
		d.progress.Wait()
	}

	elapsed := time.Since(d.start)
	if err != nil {
		return fmt.Sprintf("download failed after %s: %v", elapsed.Round(time.Millisecond), err)
	}
	return fmt.Sprintf("%.1f KiB in %s", float64(written)/1024, elapsed.Round(time.Millisecond))
}
