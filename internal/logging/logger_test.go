package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONModeWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(ModeJSON, &buf)

	l.Info().Str("task_id", "t1").Msg("polling")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["task_id"] != "t1" {
		t.Errorf("task_id = %v, want t1", line["task_id"])
	}
	if line["message"] != "polling" {
		t.Errorf("message = %v, want polling", line["message"])
	}
}

func TestSetOutputRedirects(t *testing.T) {
	var first, second bytes.Buffer
	l := NewLogger(ModeConsole, &first)

	l.SetOutput(&second)
	l.Infof("uploaded %s", "report.xlsx")

	if first.Len() != 0 {
		t.Errorf("old writer received output: %q", first.String())
	}
	if !strings.Contains(second.String(), "uploaded report.xlsx") {
		t.Errorf("new writer output = %q", second.String())
	}
	if l.Output() != &second {
		t.Error("Output() did not return the new writer")
	}
}

func TestChildKeepsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(ModeJSON, &buf)

	child := l.Child(l.With().Str("run_id", "abc"))
	child.Warn().Msg("slow")

	if !strings.Contains(buf.String(), `"run_id":"abc"`) {
		t.Errorf("child logger lost field: %q", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Errorf("ignored %d", 1)
}
