package diskspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func TestCheckAvailableSpace(t *testing.T) {
	dir := t.TempDir()

	t.Run("SmallFile", func(t *testing.T) {
		if err := CheckAvailableSpace(dir, 1024); err != nil {
			t.Errorf("Expected no error for small file, got: %v", err)
		}
	})

	t.Run("UnknownSize", func(t *testing.T) {
		if err := CheckAvailableSpace(dir, -1); err != nil {
			t.Errorf("Expected unknown size to pass, got: %v", err)
		}
	})

	t.Run("VeryLargeFile", func(t *testing.T) {
		// 100TB
		err := CheckAvailableSpace(dir, 100*1024*1024*1024*1024)
		if err == nil {
			t.Log("Warning: 100TB file check passed - system has extraordinary disk space")
		} else if !IsInsufficientSpaceError(err) {
			t.Errorf("Expected InsufficientSpaceError, got: %T", err)
		}
	})

	t.Run("SafetyMargin", func(t *testing.T) {
		available := GetAvailableSpace(dir)
		if available == 0 {
			t.Skip("Could not determine available space")
		}
		if err := CheckAvailableSpace(dir, available/2); err != nil {
			t.Errorf("Expected space for half available (%d bytes), got error: %v", available/2, err)
		}
		if err := CheckAvailableSpace(dir, available); !IsInsufficientSpaceError(err) {
			t.Errorf("Expected margin to reject the full available size, got: %v", err)
		}
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		if err := CheckAvailableSpace(filepath.Join(dir, "does", "not", "exist"), 1024); err != nil {
			t.Errorf("Expected unqueryable path to pass, got: %v", err)
		}
	})
}

func TestInsufficientSpaceErrorWrapped(t *testing.T) {
	err := fmt.Errorf("save: %w", &InsufficientSpaceError{Path: "/out", RequiredBytes: 2 << 20, AvailableBytes: 1 << 20})
	if !IsInsufficientSpaceError(err) {
		t.Error("expected wrapped error to be detected")
	}
	var e *InsufficientSpaceError
	if !errors.As(err, &e) || e.Error() != "insufficient disk space in /out: need 2.00 MB, have 1.00 MB available" {
		t.Errorf("unexpected message %q", err)
	}
}
