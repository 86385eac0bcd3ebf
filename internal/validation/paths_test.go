package validation

import (
	"path/filepath"
	"testing"
)

func TestValidateFilename(t *testing.T) {
	testCases := []struct {
		filename    string
		expectValid bool
	}{
		{"converted.zip", true},
		{"instagram_download_20250101.zip", true},
		{"file..v2.csv", true},
		{".hidden", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../evil.zip", false},
		{"dir/file.zip", false},
		{`dir\file.zip`, false},
		{"nul\x00byte.zip", false},
	}

	for _, tc := range testCases {
		err := ValidateFilename(tc.filename)
		if tc.expectValid && err != nil {
			t.Errorf("ValidateFilename(%q) = %v, want nil", tc.filename, err)
		}
		if !tc.expectValid && err == nil {
			t.Errorf("ValidateFilename(%q) = nil, want error", tc.filename)
		}
	}
}

func TestValidatePathInDirectory(t *testing.T) {
	base := t.TempDir()

	testCases := []struct {
		path        string
		expectValid bool
	}{
		{"out.zip", true},
		{"sub/out.zip", true},
		{filepath.Join(base, "out.zip"), true},
		{"../out.zip", false},
		{"sub/../../out.zip", false},
		{"", false},
	}

	for _, tc := range testCases {
		err := ValidatePathInDirectory(tc.path, base)
		if tc.expectValid && err != nil {
			t.Errorf("ValidatePathInDirectory(%q) = %v, want nil", tc.path, err)
		}
		if !tc.expectValid && err == nil {
			t.Errorf("ValidatePathInDirectory(%q) = nil, want error", tc.path)
		}
	}
}
