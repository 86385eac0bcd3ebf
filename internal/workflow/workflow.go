package workflow

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/rescale/sheetconv/internal/logging"
	"github.com/rescale/sheetconv/internal/models"
	"github.com/rescale/sheetconv/internal/validation"
)

// Uploader submits a file and returns the backend task id.
type Uploader interface {
	Upload(ctx context.Context, sub models.FileSubmission) (string, error)
}

// Result describes one finished Submit call.
type Result struct {
	RunID  string
	TaskID string // empty when the upload never produced a task
	Task   *models.UploadTask
}

// Workflow runs submissions one at a time. The busy flag is held from the
// start of the upload until the task reaches a terminal state.
type Workflow struct {
	uploader Uploader
	poller   *Poller
	reporter StatusReporter
	logger   *logging.Logger
	busy     atomic.Bool
}

// New wires an uploader and a poller to reporter.
func New(uploader Uploader, poller *Poller, reporter StatusReporter, logger *logging.Logger) *Workflow {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Workflow{
		uploader: uploader,
		poller:   poller,
		reporter: reporter,
		logger:   logger,
	}
}

// Busy reports whether a submission is active.
func (w *Workflow) Busy() bool {
	return w.busy.Load()
}

// Submit validates, uploads and tracks sub until a terminal state. It
// returns ErrBusy without side effects if another submission is active, and
// a *validation.ValidationError before any network call for rejected names.
func (w *Workflow) Submit(ctx context.Context, sub models.FileSubmission) (*Result, error) {
	if !w.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer w.busy.Store(false)

	if err := validation.ValidateSpreadsheetName(sub.Name); err != nil {
		w.reporter.Report(err.Error(), SeverityError)
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	log := w.logger.Child(w.logger.With().Str("run_id", result.RunID))

	if obs, ok := w.reporter.(RunObserver); ok {
		obs.RunStarted(result.RunID, sub.Name)
	}

	w.reporter.SetBusy(true)
	w.reporter.Report(UploadingMessage, SeverityInfo)
	log.Info().Str("file", sub.Name).Int64("bytes", sub.Size).Msg("Uploading")

	taskID, err := w.uploader.Upload(ctx, sub)
	if err != nil {
		log.Error().Err(err).Msg("Upload failed")
		w.reporter.Report(userMessage(err), SeverityError)
		w.reporter.SetBusy(false)
		return result, err
	}

	result.TaskID = taskID
	log.Info().Str("task_id", taskID).Msg("Upload accepted")
	w.reporter.Report(UploadedMessage, SeverityInfo)
	if obs, ok := w.reporter.(StateObserver); ok {
		obs.StateChanged(taskID, "", models.TaskProcessing)
	}

	task, err := w.poller.Run(ctx, taskID)
	result.Task = task
	return result, err
}
