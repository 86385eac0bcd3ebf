// Package progress renders conversion state: a progress bar and log lines
// on a terminal, JSON events for scripts, or nothing at all.
package progress

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether w is a terminal. ANSI output is enabled on
// Windows consoles as a side effect.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(f.Fd())) {
		return false
	}
	enableANSI(f)
	return true
}
