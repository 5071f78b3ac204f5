// Package format provides shared text formatting utilities for terminal output.
package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spiffcs/maintkit/internal/constants"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripAnsi removes ANSI escape sequences from a string.
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// DisplayWidth returns the visible width of s in terminal columns.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(StripAnsi(s))
}

// Truncate shortens plain text to at most maxWidth columns, ending in "..."
// when anything was cut. Wide runes are never split.
func Truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= constants.TruncationSuffixWidth {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// PadRight pads s with spaces to reach targetWidth visible columns.
func PadRight(s string, targetWidth int) string {
	if w := DisplayWidth(s); w < targetWidth {
		return s + strings.Repeat(" ", targetWidth-w)
	}
	return s
}

// Hyperlink wraps text in an OSC 8 terminal hyperlink.
func Hyperlink(text, url string) string {
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}
