// Package duration parses the cutoff arguments accepted by --since.
package duration

import (
	"fmt"
	"strings"
	"time"
)

const day = 24 * time.Hour

// Parse parses human-readable durations like "1w", "30d", "6mo".
// It returns the time that is the given duration in the past from now.
func Parse(s string) (time.Time, error) {
	return before(s, time.Now())
}

// ParseSince parses a cutoff given either as a date ("2023-01-01"), an
// RFC 3339 timestamp or a relative duration measured back from now.
// An empty string yields the zero time, meaning no cutoff.
func ParseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := before(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since value %q: use a date (2023-01-01), an RFC 3339 time or a duration (30d, 2w, 6mo)", s)
	}
	return t, nil
}

func before(s string, now time.Time) (time.Time, error) {
	var n int
	var unit string
	if _, err := fmt.Sscanf(s, "%d%s", &n, &unit); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration format: %s (use e.g., 1w, 30d, 6mo)", s)
	}
	if n < 0 {
		return time.Time{}, fmt.Errorf("negative duration: %s", s)
	}

	var d time.Duration
	switch unit {
	case "m", "min", "mins":
		d = time.Duration(n) * time.Minute
	case "h", "hr", "hrs", "hour", "hours":
		d = time.Duration(n) * time.Hour
	case "d", "day", "days":
		d = time.Duration(n) * day
	case "w", "wk", "wks", "week", "weeks":
		d = time.Duration(n) * 7 * day
	case "mo", "month", "months":
		d = time.Duration(n) * 30 * day
	case "y", "yr", "yrs", "year", "years":
		d = time.Duration(n) * 365 * day
	default:
		return time.Time{}, fmt.Errorf("unknown duration unit: %s", unit)
	}

	return now.Add(-d), nil
}
