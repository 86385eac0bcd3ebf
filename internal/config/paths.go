package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDirectory returns the directory holding the sheetconv config file.
//
// Locations:
//   - Windows: %USERPROFILE%\.config\sheetconv
//   - Unix: ~/.config/sheetconv
func ConfigDirectory() (string, error) {
	var home string
	if runtime.GOOS == "windows" {
		home = os.Getenv("USERPROFILE")
		if home == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
	} else {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
	}
	return filepath.Join(home, ".config", "sheetconv"), nil
}

// DefaultConfigPath returns the INI file inside ConfigDirectory.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config"), nil
}

// DefaultDotenvPath is the dotenv file read from the working directory.
const DefaultDotenvPath = ".env"
