// Package diskspace checks free space before a download is written.
package diskspace

import (
	"errors"
	"fmt"
)

// SafetyMargin is applied to the announced download size.
const SafetyMargin = 1.1

// InsufficientSpaceError indicates that there is not enough disk space available.
type InsufficientSpaceError struct {
	Path           string
	RequiredBytes  int64
	AvailableBytes int64
}

func (e *InsufficientSpaceError) Error() string {
	requiredMB := float64(e.RequiredBytes) / (1024 * 1024)
	availableMB := float64(e.AvailableBytes) / (1024 * 1024)
	return fmt.Sprintf("insufficient disk space in %s: need %.2f MB, have %.2f MB available",
		e.Path, requiredMB, availableMB)
}

// CheckAvailableSpace returns an InsufficientSpaceError when dir cannot hold
// requiredBytes plus SafetyMargin. Unknown sizes (<= 0) and filesystems that
// cannot be queried pass.
func CheckAvailableSpace(dir string, requiredBytes int64) error {
	if requiredBytes <= 0 {
		return nil
	}

	available, ok := availableBytes(dir)
	if !ok {
		return nil
	}

	required := int64(float64(requiredBytes) * SafetyMargin)
	if available < required {
		return &InsufficientSpaceError{
			Path:           dir,
			RequiredBytes:  required,
			AvailableBytes: available,
		}
	}
	return nil
}

// GetAvailableSpace returns the free bytes on the filesystem holding dir, or
// 0 if it cannot be determined.
func GetAvailableSpace(dir string) int64 {
	available, _ := availableBytes(dir)
	return available
}

// IsInsufficientSpaceError checks if an error is an InsufficientSpaceError
func IsInsufficientSpaceError(err error) bool {
	var e *InsufficientSpaceError
	return errors.As(err, &e)
}
