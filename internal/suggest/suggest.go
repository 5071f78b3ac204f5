// Package suggest proposes upper-bound constraints for unbounded dependencies.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spiffcs/maintkit/internal/log"
	"github.com/spiffcs/maintkit/internal/model"
	"github.com/spiffcs/maintkit/internal/pypi"
	"github.com/spiffcs/maintkit/internal/pyproject"
)

var (
	// ErrNoCandidate is returned when no requested dependency lacks an upper bound.
	ErrNoCandidate = errors.New("no dependency without an upper bound")

	// ErrNoReleases is returned when the index has no usable release for a candidate.
	ErrNoReleases = errors.New("no releases found")
)

// SummaryEnv names the file that receives the Markdown job summary.
const SummaryEnv = "GITHUB_STEP_SUMMARY"

// Suggestion is a proposed `<=` constraint for one dependency.
type Suggestion struct {
	Package string
	Version string
}

// Constraint renders the suggestion as a requirement string.
func (s Suggestion) Constraint() string {
	return s.Package + "<=" + s.Version
}

// Suggester looks up releases and reports suggestions.
type Suggester struct {
	index       pypi.Index
	out         io.Writer
	summaryPath string
}

// Option configures a Suggester.
type Option func(*Suggester)

// WithSummaryPath appends the Markdown summary to path. Empty disables it.
func WithSummaryPath(path string) Option {
	return func(s *Suggester) {
		s.summaryPath = path
	}
}

// New creates a Suggester writing notices to out.
func New(index pypi.Index, out io.Writer, opts ...Option) *Suggester {
	s := &Suggester{index: index, out: out}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Candidates returns the requirements to suggest constraints for. With no
// names it is the first requirement lacking an upper bound. Otherwise it is
// every named requirement that is declared and lacks one.
func Candidates(reqs []model.Requirement, names []string) ([]model.Requirement, error) {
	if len(names) == 0 {
		for _, req := range reqs {
			if !pyproject.HasUpperBound(req) {
				return []model.Requirement{req}, nil
			}
		}
		return nil, ErrNoCandidate
	}

	byName := make(map[string]model.Requirement, len(reqs))
	for _, req := range reqs {
		if _, ok := byName[req.Normalized]; !ok {
			byName[req.Normalized] = req
		}
	}

	var out []model.Requirement
	seen := make(map[string]bool)
	for _, name := range names {
		key := pyproject.NormalizeName(name)
		req, ok := byName[key]
		switch {
		case !ok:
			log.Debug("package not declared", "package", name)
		case pyproject.HasUpperBound(req):
			log.Debug("package already has an upper bound", "package", name, "specifiers", strings.Join(req.Specifiers, ","))
		case !seen[key]:
			seen[key] = true
			out = append(out, req)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w among %s", ErrNoCandidate, strings.Join(names, ", "))
	}
	return out, nil
}

// Suggest computes suggestions without emitting anything.
func (s *Suggester) Suggest(ctx context.Context, reqs []model.Requirement, names []string) ([]Suggestion, error) {
	candidates, err := Candidates(reqs, names)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, req := range candidates {
		versions, err := s.index.Releases(ctx, req.Name)
		if errors.Is(err, pypi.ErrNotFound) {
			return nil, fmt.Errorf("%w for %s", ErrNoReleases, req.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list releases for %s: %w", req.Name, err)
		}
		latest, ok := pypi.Latest(versions)
		if !ok {
			return nil, fmt.Errorf("%w for %s", ErrNoReleases, req.Name)
		}
		log.Debug("latest release", "package", req.Name, "version", latest, "releases", len(versions))
		suggestions = append(suggestions, Suggestion{Package: req.Name, Version: latest})
	}
	return suggestions, nil
}

// Run computes suggestions and, only if all succeed, prints a workflow
// notice for each and appends them to the job summary.
func (s *Suggester) Run(ctx context.Context, reqs []model.Requirement, names []string) ([]Suggestion, error) {
	suggestions, err := s.Suggest(ctx, reqs, names)
	if err != nil {
		return nil, err
	}

	for _, sg := range suggestions {
		if _, err := fmt.Fprintf(s.out, "::notice title=Suggested constraint::%s\n", sg.Constraint()); err != nil {
			return nil, err
		}
	}
	if s.summaryPath != "" {
		if err := appendSummary(s.summaryPath, suggestions); err != nil {
			return nil, err
		}
	}
	return suggestions, nil
}

func appendSummary(path string, suggestions []Suggestion) error {
	var b strings.Builder
	b.WriteString("### Suggested constraints\n\n")
	for _, sg := range suggestions {
		fmt.Fprintf(&b, "- `%s`\n", sg.Constraint())
	}
	b.WriteString("\n")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open step summary: %w", err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write step summary: %w", err)
	}
	return f.Close()
}
