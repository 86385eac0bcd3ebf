// Package sanitize cleans server-supplied names before they touch disk.
package sanitize

import (
	"strings"
	"unicode"
)

// Filename removes invisible and control characters from a server-supplied
// filename and trims surrounding whitespace. It does not strip directory
// components; callers validate the result.
func Filename(name string) string {
	if name == "" {
		return name
	}

	name = removeInvisibleChars(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	return strings.TrimSpace(name)
}

// removeInvisibleChars removes zero-width and other invisible Unicode characters
func removeInvisibleChars(s string) string {
	invisibleChars := []string{
		"\u200B", // Zero-width space
		"\u200C", // Zero-width non-joiner
		"\u200D", // Zero-width joiner
		"\uFEFF", // Zero-width no-break space (BOM)
		"\u00AD", // Soft hyphen
		"\u2060", // Word joiner
		"\u180E", // Mongolian vowel separator
	}

	for _, char := range invisibleChars {
		s = strings.ReplaceAll(s, char, "")
	}

	return s
}
