// Package constants holds tunables shared across sheetconv packages.
package constants

import (
	"time"
)

// Conversion service defaults
const (
	// DefaultBaseURL - address of a locally running conversion backend
	DefaultBaseURL = "http://localhost:5001"

	// PollInterval - fixed wait between consecutive status queries (2 seconds)
	// The next query is only scheduled after the previous one resolved.
	PollInterval = 2000 * time.Millisecond

	// MinPollInterval - lower bound accepted from config/flags (100ms)
	MinPollInterval = 100 * time.Millisecond

	// UploadFieldName - multipart form field carrying the spreadsheet
	UploadFieldName = "file"
)

// AllowedExtensions lists the spreadsheet formats the backend converts.
// Matching is done on the lowercased file name.
var AllowedExtensions = []string{".xlsx", ".xls", ".csv", ".numbers"}

// HTTP transport
const (
	// HTTPDialTimeout - TCP connect timeout (30 seconds)
	HTTPDialTimeout = 30 * time.Second

	// HTTPDialKeepAlive - TCP keep-alive period (30 seconds)
	HTTPDialKeepAlive = 30 * time.Second

	// HTTPIdleConnTimeout - how long idle pooled connections are kept (90 seconds)
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - TLS handshake timeout (30 seconds)
	HTTPTLSHandshakeTimeout = 30 * time.Second

	// HTTPExpectContinueTimeout - wait for 100-continue before sending body (1 second)
	HTTPExpectContinueTimeout = 1 * time.Second

	// ProxyWarmupTimeout - bound on the optional proxy warmup request (15 seconds)
	ProxyWarmupTimeout = 15 * time.Second

	// DefaultProxyPort - used when proxy host is set without a port
	DefaultProxyPort = 8080
)

// Event System
const (
	// EventBusDefaultBuffer - default buffer size for event channels
	EventBusDefaultBuffer = 256

	// EventBusMaxBuffer - maximum buffer size for high-throughput scenarios
	EventBusMaxBuffer = 4096
)

// UI Updates
const (
	// ProgressBarWidth - character width of the conversion progress bar
	ProgressBarWidth = 40

	// DownloadRefreshRate - redraw interval for the download byte counter
	DownloadRefreshRate = 150 * time.Millisecond
)
