package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventProgress)

	bus.PublishProgress("run-1", 50)

	select {
	case received := <-ch:
		progress, ok := received.(*ProgressEvent)
		if !ok {
			t.Fatal("Expected ProgressEvent")
		}
		if progress.Percent != 50 {
			t.Errorf("Expected percent 50, got %d", progress.Percent)
		}
		if progress.RunID != "run-1" {
			t.Errorf("Expected run id 'run-1', got '%s'", progress.RunID)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for event")
	}
}

func TestEventBus_DifferentEventTypes(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	progressCh := bus.Subscribe(EventProgress)
	statusCh := bus.Subscribe(EventStatus)

	bus.PublishProgress("run", 10)

	select {
	case <-progressCh:
	case <-time.After(100 * time.Millisecond):
		t.Error("Progress subscriber didn't receive event")
	}

	select {
	case <-statusCh:
		t.Error("Status subscriber received wrong event type")
	default:
	}
}

func TestEventBus_SubscribeAllPreservesOrder(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	allCh := bus.SubscribeAll()

	bus.PublishBusy("run", true)
	bus.PublishStatus("run", "working (1/2)", "info")
	bus.PublishProgress("run", 50)
	bus.PublishStateChange("run", "t1", "processing", "completed")

	want := []EventType{EventBusy, EventStatus, EventProgress, EventStateChange}
	for i, w := range want {
		select {
		case e := <-allCh:
			if e.Type() != w {
				t.Errorf("event %d: got %s, want %s", i, e.Type(), w)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timeout waiting for event %d", i)
		}
	}
}

func TestEventBus_NonBlocking(t *testing.T) {
	bus := NewEventBus(2)
	defer bus.Close()

	ch := bus.Subscribe(EventProgress)

	for i := 0; i < 10; i++ {
		bus.PublishProgress("run", i)
	}

	if got := len(ch); got != 2 {
		t.Errorf("buffered events = %d, want 2", got)
	}
	if dropped := bus.DroppedEventCount(); dropped != 8 {
		t.Errorf("dropped events = %d, want 8", dropped)
	}
}

func TestEventBus_Close(t *testing.T) {
	bus := NewEventBus(10)

	ch := bus.Subscribe(EventProgress)
	bus.Close()

	if _, ok := <-ch; ok {
		t.Error("Channel should be closed after bus.Close()")
	}

	// Publishing or subscribing after close must not panic
	bus.PublishProgress("run", 1)
	if _, ok := <-bus.SubscribeAll(); ok {
		t.Error("SubscribeAll after Close should return a closed channel")
	}
}

func TestEncode(t *testing.T) {
	ev := &StatusEvent{
		BaseEvent: BaseEvent{EventType: EventStatus, Time: time.Unix(0, 0).UTC(), RunID: "r1"},
		Message:   "done",
		Severity:  "success",
	}

	raw, err := Encode(ev)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var decoded struct {
		Type string `json:"type"`
		Data struct {
			RunID    string `json:"run_id"`
			Message  string `json:"message"`
			Severity string `json:"severity"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Type != "status" || decoded.Data.Message != "done" || decoded.Data.Severity != "success" || decoded.Data.RunID != "r1" {
		t.Errorf("unexpected encoding: %s", raw)
	}
}
