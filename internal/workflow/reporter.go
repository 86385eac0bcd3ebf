// Package workflow drives one spreadsheet conversion from upload through
// status polling to the result download.
package workflow

import "github.com/rescale/sheetconv/internal/models"

// Severity classifies a status message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// User-facing messages.
const (
	UploadingMessage        = "Uploading... please wait"
	UploadedMessage         = "File uploaded, starting conversion..."
	StartingDownloadSuffix  = " - starting download..."
	DownloadCompleteMessage = "Download complete!"
	CancelledMessage        = "cancelled"

	uploadFailedMessage   = "Upload failed: the conversion service could not be reached"
	pollFailedMessage     = "Lost contact with the conversion service while checking progress"
	downloadFailedMessage = "Download failed"
)

// StatusReporter renders workflow state. Implementations hold no logic.
type StatusReporter interface {
	Report(message string, severity Severity)
	SetProgress(percent int)
	SetBusy(busy bool)
}

// StateObserver is an optional StatusReporter extension notified on every
// task state transition.
type StateObserver interface {
	StateChanged(taskID string, from, to models.TaskStatus)
}

// RunObserver is an optional StatusReporter extension told when a
// submission starts.
type RunObserver interface {
	RunStarted(runID, fileName string)
}
