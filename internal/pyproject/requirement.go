// Package pyproject reads dependency declarations from pyproject.toml.
package pyproject

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spiffcs/maintkit/internal/model"
)

var (
	namePattern      = regexp.MustCompile(`^\s*([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)`)
	separatorPattern = regexp.MustCompile(`[-_.]+`)
	specifierPattern = regexp.MustCompile(`^(~=|===|==|!=|<=|>=|<|>)\s*(\S+)$`)
	quotedPattern    = regexp.MustCompile(`^\s*"([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)`)
)

// NormalizeName returns the canonical form of a distribution name.
func NormalizeName(name string) string {
	return strings.ToLower(separatorPattern.ReplaceAllString(name, "-"))
}

// ParseRequirement parses a dependency string such as
// `ruamel.yaml[jinja2]>=0.15.78,<0.17; python_version >= "3.8"`.
func ParseRequirement(s string) (model.Requirement, error) {
	raw := strings.TrimSpace(s)
	body := raw
	if i := strings.Index(body, ";"); i >= 0 {
		body = body[:i]
	}

	m := namePattern.FindStringSubmatch(body)
	if m == nil {
		return model.Requirement{}, fmt.Errorf("invalid requirement %q: missing project name", raw)
	}
	req := model.Requirement{
		Name:       m[1],
		Normalized: NormalizeName(m[1]),
		Raw:        raw,
	}

	rest := strings.TrimSpace(body[len(m[0]):])
	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return model.Requirement{}, fmt.Errorf("invalid requirement %q: unterminated extras", raw)
		}
		rest = strings.TrimSpace(rest[end+1:])
	}
	if strings.HasPrefix(rest, "@") {
		// Direct URL references carry no version specifiers.
		return req, nil
	}
	rest = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(rest, "("), ")"))
	if rest == "" {
		return req, nil
	}

	for _, clause := range strings.Split(rest, ",") {
		clause = strings.TrimSpace(clause)
		if !specifierPattern.MatchString(clause) {
			return model.Requirement{}, fmt.Errorf("invalid requirement %q: bad specifier %q", raw, clause)
		}
		req.Specifiers = append(req.Specifiers, strings.Join(strings.Fields(clause), ""))
	}
	return req, nil
}

// HasUpperBound reports whether any specifier caps the version: <, <=,
// an exact == without a wildcard, === or ~=.
func HasUpperBound(req model.Requirement) bool {
	for _, spec := range req.Specifiers {
		m := specifierPattern.FindStringSubmatch(spec)
		if m == nil {
			continue
		}
		switch op, version := m[1], m[2]; op {
		case "<", "<=", "===", "~=":
			return true
		case "==":
			if !strings.HasSuffix(version, ".*") {
				return true
			}
		}
	}
	return false
}

// ParseQuotedPackage extracts the project name from a manifest line holding
// a quoted requirement, e.g. `    "airium>=0.2.6",`.
func ParseQuotedPackage(line string) (string, bool) {
	m := quotedPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}
