package models

import "testing"

func TestClampPercent(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{140, 100},
	}
	for _, tt := range tests {
		if got := ClampPercent(tt.in); got != tt.want {
			t.Errorf("ClampPercent(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	if TaskProcessing.IsTerminal() {
		t.Error("processing should not be terminal")
	}
	if !TaskCompleted.IsTerminal() || !TaskError.IsTerminal() {
		t.Error("completed and error should be terminal")
	}
	if TaskStatus("queued").Valid() {
		t.Error("unknown status reported as valid")
	}
}

func TestUploadTaskApply(t *testing.T) {
	task := NewUploadTask("t1")
	if task.Status != TaskProcessing {
		t.Fatalf("new task status = %q, want processing", task.Status)
	}

	task.Apply(&ProgressResponse{
		Status:      TaskProcessing,
		Message:     "working",
		Completed:   1,
		Total:       2,
		Progress:    150,
		DownloadURL: "/download/early",
	})
	if task.Progress != 100 {
		t.Errorf("Progress = %d, want clamped 100", task.Progress)
	}
	if task.DownloadURL != "" {
		t.Errorf("DownloadURL = %q, want empty while processing", task.DownloadURL)
	}

	task.Apply(&ProgressResponse{Status: TaskCompleted, Message: "done", DownloadURL: "/download/t1"})
	if task.DownloadURL != "/download/t1" {
		t.Errorf("DownloadURL = %q, want /download/t1", task.DownloadURL)
	}
}
