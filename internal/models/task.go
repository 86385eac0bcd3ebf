// Package models defines data structures shared by the sheetconv packages.
package models

// TaskStatus is the status string reported by the conversion backend.
type TaskStatus string

const (
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskError      TaskStatus = "error"
)

// IsTerminal reports whether no further polling follows this status.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskCompleted || s == TaskError
}

// Valid reports whether s is one of the statuses the backend documents.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskProcessing, TaskCompleted, TaskError:
		return true
	}
	return false
}

// UploadResponse is the JSON body returned by POST /upload.
// The backend omits "success" on 4xx/5xx and only sends "error".
type UploadResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"task_id,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ProgressResponse is the JSON body returned by GET /progress/{task_id}.
type ProgressResponse struct {
	Status      TaskStatus `json:"status"`
	Message     string     `json:"message"`
	Completed   int        `json:"completed"`
	Total       int        `json:"total"`
	Progress    int        `json:"progress"`
	DownloadURL string     `json:"download_url,omitempty"`
	Error       string     `json:"error,omitempty"` // set on 404 for unknown task ids
}

// UploadTask tracks one in-flight conversion job on the client side.
type UploadTask struct {
	TaskID      string
	Status      TaskStatus
	Completed   int
	Total       int
	Progress    int // percent, always within [0,100]
	Message     string
	DownloadURL string // only set once Status is completed
}

// NewUploadTask returns a task in the processing state, as created right
// after a successful upload.
func NewUploadTask(taskID string) *UploadTask {
	return &UploadTask{
		TaskID: taskID,
		Status: TaskProcessing,
	}
}

// Apply copies a poll response into the task.
func (t *UploadTask) Apply(resp *ProgressResponse) {
	t.Status = resp.Status
	t.Message = resp.Message
	t.Completed = resp.Completed
	t.Total = resp.Total
	t.Progress = ClampPercent(resp.Progress)
	if resp.Status == TaskCompleted {
		t.DownloadURL = resp.DownloadURL
	} else {
		t.DownloadURL = ""
	}
}

// ClampPercent bounds a progress value to [0,100].
func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
