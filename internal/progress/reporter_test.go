package progress

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rescale/sheetconv/internal/events"
	"github.com/rescale/sheetconv/internal/logging"
	"github.com/rescale/sheetconv/internal/models"
	"github.com/rescale/sheetconv/internal/workflow"
)

func TestTerminalReporterNonTTY(t *testing.T) {
	var out, logs bytes.Buffer
	r := NewTerminalReporter(&out, logging.NewLogger(logging.ModeJSON, &logs))

	r.SetBusy(true)
	r.Report("Converting (1/2)", workflow.SeverityInfo)
	r.SetProgress(50)
	r.Report("Download complete!", workflow.SeveritySuccess)
	r.Report("boom", workflow.SeverityError)
	r.SetBusy(false)

	if out.Len() != 0 {
		t.Errorf("expected no bar output on non-terminal writer, got %q", out.String())
	}

	var levels, messages []string
	scanner := bufio.NewScanner(&logs)
	for scanner.Scan() {
		var line map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("invalid log line %q: %v", scanner.Text(), err)
		}
		levels = append(levels, line["level"].(string))
		messages = append(messages, line["message"].(string))
	}

	wantMessages := []string{"Converting (1/2)", "Download complete!", "boom"}
	if strings.Join(messages, "|") != strings.Join(wantMessages, "|") {
		t.Errorf("messages = %v, want %v", messages, wantMessages)
	}
	if levels[2] != "error" {
		t.Errorf("expected error level for error severity, got %s", levels[2])
	}
}

func TestIsTerminalBuffer(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("bytes.Buffer is not a terminal")
	}
}

func TestNoOpReporter(t *testing.T) {
	var r workflow.StatusReporter = NewNoOpReporter()
	r.SetBusy(true)
	r.Report("x", workflow.SeverityInfo)
	r.SetProgress(10)
	r.SetBusy(false)
}

func TestEventReporterPublishes(t *testing.T) {
	bus := events.NewEventBus(16)
	ch := bus.SubscribeAll()

	r := NewEventReporter(bus)
	r.RunStarted("run-1", "book.xlsx")
	r.SetBusy(true)
	r.Report("Converting (1/2)", workflow.SeverityInfo)
	r.SetProgress(50)
	r.StateChanged("task-1", models.TaskProcessing, models.TaskCompleted)
	bus.Close()

	var out bytes.Buffer
	if err := WriteJSONLines(&out, ch); err != nil {
		t.Fatalf("WriteJSONLines() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 JSON lines, got %d: %q", len(lines), out.String())
	}

	wantTypes := []string{"busy", "status", "progress", "state_change"}
	for i, line := range lines {
		var env struct {
			Type string                 `json:"type"`
			Data map[string]interface{} `json:"data"`
		}
		if err := json.Unmarshal([]byte(line), &env); err != nil {
			t.Fatalf("line %d is not JSON: %v", i, err)
		}
		if env.Type != wantTypes[i] {
			t.Errorf("line %d type = %s, want %s", i, env.Type, wantTypes[i])
		}
		if env.Data["run_id"] != "run-1" {
			t.Errorf("line %d missing run id: %v", i, env.Data)
		}
	}
}

func TestEventReporterImplementsObservers(t *testing.T) {
	var r workflow.StatusReporter = NewEventReporter(events.NewEventBus(1))
	if _, ok := r.(workflow.StateObserver); !ok {
		t.Error("EventReporter should observe state changes")
	}
	if _, ok := r.(workflow.RunObserver); !ok {
		t.Error("EventReporter should observe run starts")
	}
}

func TestDownloadBarNonTTY(t *testing.T) {
	var out bytes.Buffer
	bar := NewDownloadBar(&out, "result.zip", 4)

	src := strings.NewReader("data")
	r := bar.ProxyReader(src)
	if r != src {
		t.Error("expected passthrough reader on non-terminal output")
	}

	summary := bar.Complete(4, nil)
	if !strings.Contains(summary, "KiB") {
		t.Errorf("unexpected summary %q", summary)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}
