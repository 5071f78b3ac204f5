// Package output renders review reports.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spiffcs/maintkit/internal/model"
	"golang.org/x/term"
)

// Format represents the output format
type Format string

const (
	FormatYAML Format = "yaml"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatYAML, FormatText, FormatJSON}

// Formatter renders approved reviews of repo to w.
type Formatter interface {
	Format(repo string, reviews []model.Review, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format.
func NewFormatter(format Format, styled bool) (Formatter, error) {
	switch format {
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{Pretty: true}, nil
	case FormatText:
		return &TextFormatter{Styled: styled}, nil
	}
	return nil, fmt.Errorf("invalid format: %s (must be yaml, text or json)", format)
}

// IsTerminal reports whether w is a terminal that accepts color.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
