package progress

import (
	"io"
	"sync"

	"github.com/rescale/sheetconv/internal/events"
	"github.com/rescale/sheetconv/internal/models"
	"github.com/rescale/sheetconv/internal/workflow"
)

// EventReporter publishes workflow state on an event bus.
type EventReporter struct {
	bus   *events.EventBus
	mu    sync.RWMutex
	runID string
}

// NewEventReporter creates a reporter publishing to bus.
func NewEventReporter(bus *events.EventBus) *EventReporter {
	return &EventReporter{bus: bus}
}

func (r *EventReporter) currentRun() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.runID
}

// RunStarted tags subsequent events with runID.
func (r *EventReporter) RunStarted(runID, fileName string) {
	r.mu.Lock()
	r.runID = runID
	r.mu.Unlock()
}

func (r *EventReporter) Report(message string, severity workflow.Severity) {
	r.bus.PublishStatus(r.currentRun(), message, string(severity))
}

func (r *EventReporter) SetProgress(percent int) {
	r.bus.PublishProgress(r.currentRun(), percent)
}

func (r *EventReporter) SetBusy(busy bool) {
	r.bus.PublishBusy(r.currentRun(), busy)
}

// StateChanged publishes task state transitions.
func (r *EventReporter) StateChanged(taskID string, from, to models.TaskStatus) {
	r.bus.PublishStateChange(r.currentRun(), taskID, string(from), string(to))
}

// WriteJSONLines writes each event from ch to w as one JSON object per line
// until ch is closed. Encoding failures are skipped.
func WriteJSONLines(w io.Writer, ch <-chan events.Event) error {
	for ev := range ch {
		data, err := events.Encode(ev)
		if err != nil {
			continue
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}
