// Package paths provides utilities for file path handling in downloads.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// UniquePath returns p if nothing exists there yet. Otherwise it inserts
// the first free numeric suffix before the extension:
//
//	converted.zip -> converted_1.zip -> converted_2.zip
func UniquePath(p string) string {
	if _, err := os.Lstat(p); os.IsNotExist(err) {
		return p
	}

	ext := filepath.Ext(p)
	base := p[:len(p)-len(ext)]
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
