package output

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spiffcs/maintkit/internal/constants"
	"github.com/spiffcs/maintkit/internal/format"
	"github.com/spiffcs/maintkit/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	prStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("86"))

	reviewerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// timestampLayout renders UTC as "+00:00", e.g. "2023-06-01 00:00:00+00:00".
const timestampLayout = "2006-01-02 15:04:05-07:00"

// TextFormatter formats reviews as a human-readable report. Styled output
// adds colors, PR hyperlinks and relative ages, and truncates long titles.
type TextFormatter struct {
	Styled bool
	// Now is used for relative ages. Zero means time.Now.
	Now time.Time
}

// Format writes the report header followed by one block per review.
func (f *TextFormatter) Format(repo string, reviews []model.Review, w io.Writer) error {
	header := fmt.Sprintf("Most recent approved reviews for %s:", repo)
	if f.Styled {
		header = headerStyle.Render(header)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}

	for _, r := range reviews {
		var err error
		if f.Styled {
			err = f.writeStyled(w, repo, r, now)
		} else {
			_, err = fmt.Fprintf(w, "PR #%d: '%s'\n  Approved by: %s\n  Timestamp: %s\n\n",
				r.PRNumber, r.PRTitle, r.Reviewer, r.SubmittedAt.UTC().Format(timestampLayout))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (f *TextFormatter) writeStyled(w io.Writer, repo string, r model.Review, now time.Time) error {
	number := fmt.Sprintf("PR #%d", r.PRNumber)
	link := format.Hyperlink(prStyle.Render(number), fmt.Sprintf("https://github.com/%s/pull/%d", repo, r.PRNumber))
	title := format.Truncate(r.PRTitle, constants.MaxTitleWidth)

	_, err := fmt.Fprintf(w, "%s: '%s'\n  %s %s\n  %s %s %s\n\n",
		link, title,
		format.PadRight("Approved by:", 12), reviewerStyle.Render(r.Reviewer),
		format.PadRight("Timestamp:", 12), r.SubmittedAt.UTC(), dimStyle.Render("("+format.Ago(r.SubmittedAt, now)+")"),
	)
	return err
}
