package format

import (
	"testing"
)

func TestStripAnsi(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no ansi", "hello", "hello"},
		{"single color", "\x1b[31mred\x1b[0m", "red"},
		{"multiple colors", "\x1b[31mred\x1b[0m \x1b[32mgreen\x1b[0m", "red green"},
		{"complex", "\x1b[1;31;40mbold red on black\x1b[0m", "bold red on black"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripAnsi(tt.input)
			if got != tt.expected {
				t.Errorf("StripAnsi(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty", "", 0},
		{"ascii", "hello", 5},
		{"with ansi", "\x1b[31mred\x1b[0m", 3},
		{"wide chars", "日本語", 6},
		{"mixed", "Hello, 世界!", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayWidth(tt.input)
			if got != tt.expected {
				t.Errorf("DisplayWidth(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"truncate ascii", "hello world", 8, "hello..."},
		{"wide runes not split", "日本語テキスト", 8, "日本..."},
		{"very short max", "hello", 3, "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			if got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
			}
			if w := DisplayWidth(got); w > tt.maxWidth {
				t.Errorf("Truncate(%q, %d) width %d exceeds max", tt.input, tt.maxWidth, w)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		targetWidth int
		expected    string
	}{
		{"no padding needed", "hello", 5, "hello"},
		{"add padding", "hi", 5, "hi   "},
		{"already exceeds", "hello", 3, "hello"},
		{"with ansi", "\x1b[31mred\x1b[0m", 5, "\x1b[31mred\x1b[0m  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PadRight(tt.input, tt.targetWidth)
			if got != tt.expected {
				t.Errorf("PadRight(%q, %d) = %q, want %q", tt.input, tt.targetWidth, got, tt.expected)
			}
		})
	}
}

func TestHyperlink(t *testing.T) {
	got := Hyperlink("#2", "https://github.com/o/r/pull/2")
	want := "\033]8;;https://github.com/o/r/pull/2\033\\#2\033]8;;\033\\"
	if got != want {
		t.Errorf("Hyperlink() = %q, want %q", got, want)
	}
}
