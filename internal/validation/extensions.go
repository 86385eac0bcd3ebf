// Package validation provides input validation utilities for sheetconv.
package validation

import (
	"errors"
	"strings"

	"github.com/rescale/sheetconv/internal/constants"
)

// UnsupportedFileMessage is shown when a file outside the allow-list is picked.
const UnsupportedFileMessage = "only Excel (.xlsx, .xls), CSV (.csv) and Numbers (.numbers) files can be uploaded"

// NoFileMessage is shown when no file name was given at all.
const NoFileMessage = "no file selected"

// ErrUnsupportedExtension is matched by every *ValidationError.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// ValidationError is returned when a file is rejected before any network call.
type ValidationError struct {
	FileName string
	Reason   string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Is lets errors.Is(err, ErrUnsupportedExtension) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrUnsupportedExtension
}

// ValidateSpreadsheetName accepts names ending (case-insensitively) in one of
// constants.AllowedExtensions. It has no side effects; callers report the
// returned reason themselves.
func ValidateSpreadsheetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{FileName: name, Reason: NoFileMessage}
	}

	lower := strings.ToLower(name)
	for _, ext := range constants.AllowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}

	return &ValidationError{FileName: name, Reason: UnsupportedFileMessage}
}
