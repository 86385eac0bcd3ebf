package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/rescale/sheetconv/internal/api"
	"github.com/rescale/sheetconv/internal/logging"
)

// Saver retrieves a finished result. url is absolute.
type Saver interface {
	Save(ctx context.Context, url string) error
}

// DownloadTrigger starts the retrieval of a completed task's result.
type DownloadTrigger struct {
	baseURL  string
	saver    Saver
	reporter StatusReporter
	logger   *logging.Logger
}

// NewDownloadTrigger returns a trigger that resolves download paths
// against baseURL.
func NewDownloadTrigger(baseURL string, saver Saver, reporter StatusReporter, logger *logging.Logger) *DownloadTrigger {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &DownloadTrigger{
		baseURL:  strings.TrimRight(baseURL, "/"),
		saver:    saver,
		reporter: reporter,
		logger:   logger,
	}
}

// Trigger saves baseURL+downloadPath exactly once, then reports the final
// message and clears busy.
func (d *DownloadTrigger) Trigger(ctx context.Context, downloadPath string) error {
	if strings.TrimSpace(downloadPath) == "" {
		return d.fail(&DownloadError{Err: errors.New("completed task has no download_url")})
	}

	url := d.ResolveURL(downloadPath)
	d.logger.Info().Str("url", url).Msg("Downloading converted file")

	if err := d.saver.Save(ctx, url); err != nil {
		return d.fail(&DownloadError{URL: url, Err: err})
	}

	d.reporter.Report(DownloadCompleteMessage, SeveritySuccess)
	d.reporter.SetBusy(false)
	return nil
}

// ResolveURL joins downloadPath onto the base URL.
func (d *DownloadTrigger) ResolveURL(downloadPath string) string {
	return d.baseURL + "/" + strings.TrimLeft(downloadPath, "/")
}

func (d *DownloadTrigger) fail(err *DownloadError) error {
	d.logger.Error().Err(err.Err).Str("url", err.URL).Msg("Download failed")
	msg := downloadFailedMessage
	var se *api.ServerError
	switch {
	case errors.As(err.Err, &se):
		msg += ": " + se.Message
	case err.Err != nil && !api.IsTransportError(err.Err, ""):
		msg += ": " + err.Err.Error()
	}
	d.reporter.Report(msg, SeverityError)
	d.reporter.SetBusy(false)
	return err
}
