// Package events carries workflow updates from the conversion state machine
// to any number of subscribers (JSON line output, tests).
package events

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rescale/sheetconv/internal/constants"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	EventStatus      EventType = "status"       // Message + severity for the user
	EventProgress    EventType = "progress"     // Conversion percentage
	EventBusy        EventType = "busy"         // Submission trigger disabled/enabled
	EventStateChange EventType = "state_change" // Task state transition
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType `json:"-"`
	Time      time.Time `json:"-"`
	RunID     string    `json:"run_id,omitempty"`
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// StatusEvent is a user-facing status line.
type StatusEvent struct {
	BaseEvent
	Message  string `json:"message"`
	Severity string `json:"severity"` // "info", "success", "error"
}

// ProgressEvent carries the percentage reported by the last poll.
type ProgressEvent struct {
	BaseEvent
	Percent int `json:"percent"`
}

// BusyEvent mirrors the workflow's busy flag.
type BusyEvent struct {
	BaseEvent
	Busy bool `json:"busy"`
}

// StateChangeEvent represents task state transitions
type StateChangeEvent struct {
	BaseEvent
	TaskID   string `json:"task_id,omitempty"`
	OldState string `json:"old_state"`
	NewState string `json:"new_state"`
}

// EventBus manages event subscriptions and publishing
type EventBus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event // Subscribers to all events
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64 // Count of dropped events due to full buffers
}

// NewEventBus creates a new event bus with specified buffer size
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = constants.EventBusDefaultBuffer
	}
	if bufferSize > constants.EventBusMaxBuffer {
		bufferSize = constants.EventBusMaxBuffer
	}
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan Event, eb.bufferSize)
	if eb.closed {
		close(ch)
		return ch
	}
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events
func (eb *EventBus) SubscribeAll() <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan Event, eb.bufferSize)
	if eb.closed {
		close(ch)
		return ch
	}
	eb.all = append(eb.all, ch)
	return ch
}

// Publish sends an event to all subscribers without blocking. Events that do
// not fit in a subscriber's buffer are dropped and counted.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	for _, ch := range eb.subscribers[event.Type()] {
		eb.send(ch, event)
	}
	for _, ch := range eb.all {
		eb.send(ch, event)
	}
}

func (eb *EventBus) send(ch chan Event, event Event) {
	select {
	case ch <- event:
	default:
		eb.droppedEvents.Add(1)
	}
}

// Close shuts down the event bus and closes all channels
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}
	eb.closed = true

	for _, channels := range eb.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range eb.all {
		close(ch)
	}
}

// DroppedEventCount returns the total number of events dropped due to full buffers
func (eb *EventBus) DroppedEventCount() int64 {
	return eb.droppedEvents.Load()
}

// PublishStatus is a convenience method for publishing status events
func (eb *EventBus) PublishStatus(runID, message, severity string) {
	eb.Publish(&StatusEvent{
		BaseEvent: newBase(EventStatus, runID),
		Message:   message,
		Severity:  severity,
	})
}

// PublishProgress is a convenience method for publishing progress events
func (eb *EventBus) PublishProgress(runID string, percent int) {
	eb.Publish(&ProgressEvent{
		BaseEvent: newBase(EventProgress, runID),
		Percent:   percent,
	})
}

// PublishBusy is a convenience method for publishing busy flag changes
func (eb *EventBus) PublishBusy(runID string, busy bool) {
	eb.Publish(&BusyEvent{
		BaseEvent: newBase(EventBusy, runID),
		Busy:      busy,
	})
}

// PublishStateChange is a convenience method for publishing state change events
func (eb *EventBus) PublishStateChange(runID, taskID, oldState, newState string) {
	eb.Publish(&StateChangeEvent{
		BaseEvent: newBase(EventStateChange, runID),
		TaskID:    taskID,
		OldState:  oldState,
		NewState:  newState,
	})
}

func newBase(t EventType, runID string) BaseEvent {
	return BaseEvent{EventType: t, Time: time.Now(), RunID: runID}
}

// envelope is the JSON line layout written by Encode.
type envelope struct {
	Type EventType `json:"type"`
	Time time.Time `json:"time"`
	Data Event     `json:"data"`
}

// Encode renders an event as a single JSON object with its type and time
// hoisted next to the payload.
func Encode(e Event) ([]byte, error) {
	return json.Marshal(envelope{Type: e.Type(), Time: e.Timestamp(), Data: e})
}
