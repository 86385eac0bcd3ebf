package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/rescale/sheetconv/internal/constants"
	"github.com/rescale/sheetconv/internal/logging"
	"github.com/rescale/sheetconv/internal/models"
)

// StatusQuerier performs one status query for a task.
type StatusQuerier interface {
	Progress(ctx context.Context, taskID string) (*models.ProgressResponse, error)
}

// Poller is the task state machine. It starts in processing and queries the
// backend once per interval until the task completes or fails. A new query
// is only issued after the previous one resolved and the interval elapsed.
type Poller struct {
	querier        StatusQuerier
	trigger        *DownloadTrigger
	reporter       StatusReporter
	clock          Clock
	interval       time.Duration
	requestTimeout time.Duration
	logger         *logging.Logger
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithClock replaces the wall clock used for interval waits.
func WithClock(c Clock) PollerOption {
	return func(p *Poller) { p.clock = c }
}

// WithInterval sets the wait between queries.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithRequestTimeout bounds each status query. Zero disables the bound.
func WithRequestTimeout(d time.Duration) PollerOption {
	return func(p *Poller) { p.requestTimeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPoller creates a poller that hands completed tasks to trigger.
func NewPoller(querier StatusQuerier, trigger *DownloadTrigger, reporter StatusReporter, opts ...PollerOption) *Poller {
	p := &Poller{
		querier:  querier,
		trigger:  trigger,
		reporter: reporter,
		clock:    RealClock(),
		interval: constants.PollInterval,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the wait between queries.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run polls taskID until a terminal state and returns the final task.
// A nil error means the task completed and its result was saved.
func (p *Poller) Run(ctx context.Context, taskID string) (*models.UploadTask, error) {
	task := models.NewUploadTask(taskID)
	log := p.logger.Child(p.logger.With().Str("task_id", taskID))

	for polls := 1; ; polls++ {
		resp, err := p.query(ctx, taskID)
		if err != nil {
			if ctx.Err() != nil {
				return task, p.fail(task, CancelledMessage, ctx.Err())
			}
			log.Error().Err(err).Int("poll", polls).Msg("Status query failed")
			return task, p.fail(task, userMessage(err), err)
		}

		prev := task.Status
		task.Apply(resp)

		switch resp.Status {
		case models.TaskProcessing:
			log.Debug().Int("completed", resp.Completed).Int("total", resp.Total).Int("progress", task.Progress).Msg("Processing")
			p.reporter.Report(fmt.Sprintf("%s (%d/%d)", resp.Message, resp.Completed, resp.Total), SeverityInfo)
			p.reporter.SetProgress(task.Progress)

			select {
			case <-ctx.Done():
				return task, p.fail(task, CancelledMessage, ctx.Err())
			case <-p.clock.After(p.interval):
			}

		case models.TaskCompleted:
			p.notify(taskID, prev, task.Status)
			log.Info().Int("polls", polls).Str("download_url", resp.DownloadURL).Msg("Conversion completed")
			p.reporter.Report(resp.Message+StartingDownloadSuffix, SeveritySuccess)
			if err := p.trigger.Trigger(ctx, resp.DownloadURL); err != nil {
				p.transition(task, models.TaskError)
				return task, err
			}
			return task, nil

		case models.TaskError:
			p.notify(taskID, prev, task.Status)
			log.Warn().Str("message", resp.Message).Msg("Conversion failed")
			p.reporter.Report(resp.Message, SeverityError)
			p.reporter.SetBusy(false)
			return task, &TaskError{TaskID: taskID, Message: resp.Message}
		}
	}
}

func (p *Poller) query(ctx context.Context, taskID string) (*models.ProgressResponse, error) {
	if p.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.requestTimeout)
		defer cancel()
	}
	return p.querier.Progress(ctx, taskID)
}

// fail moves the task to error without a server message.
func (p *Poller) fail(task *models.UploadTask, message string, err error) error {
	p.transition(task, models.TaskError)
	task.Message = message
	p.reporter.Report(message, SeverityError)
	p.reporter.SetBusy(false)
	return err
}

func (p *Poller) transition(task *models.UploadTask, to models.TaskStatus) {
	from := task.Status
	task.Status = to
	task.DownloadURL = ""
	p.notify(task.TaskID, from, to)
}

func (p *Poller) notify(taskID string, from, to models.TaskStatus) {
	if from == to {
		return
	}
	if obs, ok := p.reporter.(StateObserver); ok {
		obs.StateChanged(taskID, from, to)
	}
}
