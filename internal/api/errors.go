// Package api provides the HTTP client for the conversion backend.
package api

import (
	"errors"
	"fmt"
)

// Operation names carried by TransportError and ServerError.
const (
	OpUpload   = "upload"
	OpProgress = "progress"
	OpDownload = "download"
)

// TransportError means the request did not produce a usable answer: the
// connection failed, the body was not the expected JSON, or the JSON did not
// have the expected shape.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError carries an error message reported by the backend itself.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// IsTransportError reports whether err wraps a *TransportError for op.
// An empty op matches any operation.
func IsTransportError(err error, op string) bool {
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	return op == "" || te.Op == op
}

// IsServerError reports whether err wraps a *ServerError for op.
// An empty op matches any operation.
func IsServerError(err error, op string) bool {
	var se *ServerError
	if !errors.As(err, &se) {
		return false
	}
	return op == "" || se.Op == op
}
