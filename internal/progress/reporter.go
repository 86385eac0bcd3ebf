package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/rescale/sheetconv/internal/constants"
	"github.com/rescale/sheetconv/internal/logging"
	"github.com/rescale/sheetconv/internal/workflow"
)

// TerminalReporter shows conversion progress as a 0-100 bar on a terminal
// and writes every status message as a log line. On non-terminal output
// only the log lines are written.
type TerminalReporter struct {
	mu     sync.Mutex
	out    io.Writer
	logger *logging.Logger
	tty    bool
	bar    *progressbar.ProgressBar
}

// NewTerminalReporter creates a reporter drawing its bar on out.
func NewTerminalReporter(out io.Writer, logger *logging.Logger) *TerminalReporter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &TerminalReporter{
		out:    out,
		logger: logger,
		tty:    IsTerminal(out),
	}
}

// Report updates the bar description for info messages and logs every
// message at a level matching its severity.
func (r *TerminalReporter) Report(message string, severity workflow.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil && severity == workflow.SeverityInfo {
		r.bar.Describe(message)
		return
	}
	if r.bar != nil {
		_ = r.bar.Clear()
	}

	switch severity {
	case workflow.SeverityError:
		r.logger.Error().Msg(message)
	case workflow.SeveritySuccess:
		r.logger.Info().Str("severity", string(severity)).Msg(message)
	default:
		r.logger.Info().Msg(message)
	}
}

// SetProgress moves the bar.
func (r *TerminalReporter) SetProgress(percent int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		_ = r.bar.Set(percent)
		return
	}
	r.logger.Debug().Int("progress", percent).Msg("Progress")
}

// SetBusy shows the bar while a task is active and removes it afterwards.
func (r *TerminalReporter) SetBusy(busy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if busy {
		if r.tty && r.bar == nil {
			r.bar = progressbar.NewOptions(100,
				progressbar.OptionSetWriter(r.out),
				progressbar.OptionSetWidth(constants.ProgressBarWidth),
				progressbar.OptionShowCount(),
				progressbar.OptionSetPredictTime(false),
				progressbar.OptionSetRenderBlankState(true),
				progressbar.OptionClearOnFinish(),
			)
		}
		return
	}

	if r.bar != nil {
		_ = r.bar.Exit()
		fmt.Fprintln(r.out)
		r.bar = nil
	}
}

// NoOpReporter discards everything.
type NoOpReporter struct{}

// NewNoOpReporter creates a reporter that does nothing.
func NewNoOpReporter() *NoOpReporter {
	return &NoOpReporter{}
}

func (NoOpReporter) Report(string, workflow.Severity) {}
func (NoOpReporter) SetProgress(int)                  {}
func (NoOpReporter) SetBusy(bool)                     {}
