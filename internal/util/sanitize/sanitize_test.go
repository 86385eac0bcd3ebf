package sanitize

import "testing"

func TestFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "converted.zip", "converted.zip"},
		{"surrounding whitespace", "  converted.zip\t", "converted.zip"},
		{"zero-width space", "conv\u200Berted.zip", "converted.zip"},
		{"BOM prefix", "\uFEFFconverted.zip", "converted.zip"},
		{"control characters", "conv\x00er\nted.zip", "converted.zip"},
		{"keeps unicode letters", "변환결과.zip", "변환결과.zip"},
		{"keeps separators", "../x.zip", "../x.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.input); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
