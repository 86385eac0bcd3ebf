package workflow

import (
	"errors"
	"fmt"

	"github.com/rescale/sheetconv/internal/api"
)

// ErrBusy is returned by Submit while another task is still active.
var ErrBusy = errors.New("a conversion is already in progress")

// TaskError is a conversion the backend itself reported as failed.
type TaskError struct {
	TaskID  string
	Message string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s failed: %s", e.TaskID, e.Message)
}

// DownloadError means a completed task's result could not be saved.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s failed: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// userMessage picks the text shown for a failed step. Backend messages are
// shown verbatim; transport failures get a fixed message for their step.
func userMessage(err error) string {
	var se *api.ServerError
	if errors.As(err, &se) {
		return se.Message
	}
	var te *api.TransportError
	if errors.As(err, &te) {
		switch te.Op {
		case api.OpUpload:
			return uploadFailedMessage
		case api.OpProgress:
			return pollFailedMessage
		case api.OpDownload:
			return downloadFailedMessage
		}
	}
	return "Error: " + err.Error()
}
