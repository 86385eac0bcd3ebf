package validation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateFilename checks a bare file name that came from the server (for
// example a Content-Disposition header) before it is joined onto a local
// directory. Empty names, null bytes, path separators and ".." are rejected.
func ValidateFilename(filename string) error {
	switch {
	case filename == "":
		return fmt.Errorf("filename cannot be empty")
	case strings.ContainsRune(filename, 0):
		return fmt.Errorf("filename contains null byte: %q", filename)
	case strings.ContainsAny(filename, `/\`):
		return fmt.Errorf("filename cannot contain path separators: %s", filename)
	case filename == "." || filename == "..":
		return fmt.Errorf("filename cannot be %q", filename)
	}
	return nil
}

// ValidatePathInDirectory returns an error if path, resolved against baseDir,
// lands outside baseDir.
func ValidatePathInDirectory(path, baseDir string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if baseDir == "" {
		return fmt.Errorf("base directory cannot be empty")
	}

	base, err := filepath.Abs(filepath.Clean(baseDir))
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolved := filepath.Clean(path)
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(base, resolved)
	}

	rel, err := filepath.Rel(base, resolved)
	if err != nil {
		return fmt.Errorf("failed to compute relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes base directory: %s (base: %s)", path, baseDir)
	}

	return nil
}
