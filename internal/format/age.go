package format

import (
	"fmt"
	"time"
)

// FormatAge formats a duration as a compact age: "now", "5m", "2h", "3d", "2w", "3mo".
func FormatAge(d time.Duration) string {
	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	days := int(d.Hours() / 24)
	switch {
	case days < 7:
		return fmt.Sprintf("%dd", days)
	case days < 30:
		return fmt.Sprintf("%dw", days/7)
	default:
		return fmt.Sprintf("%dmo", days/30)
	}
}

// Ago describes how long before now t was, e.g. "3d ago" or "just now".
// Future times are treated as now.
func Ago(t, now time.Time) string {
	age := FormatAge(now.Sub(t))
	if age == "now" {
		return "just now"
	}
	return age + " ago"
}
