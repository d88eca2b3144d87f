package formatter

import (
	"fmt"
	"time"
)

// RelativeDate renders a deadline date relative to now in compact form.
func RelativeDate(t, now time.Time) string {
	days := calendarDays(now, t)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days < 0:
		return fmt.Sprintf("%dd ago", -days)
	default:
		return fmt.Sprintf("in %dd", days)
	}
}

// FormatDate renders an absolute date.
func FormatDate(t time.Time) string {
	return t.Format("Mon Jan 2")
}

// Truncate shortens s to max runes, ellipsized.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// calendarDays counts whole calendar days from a to b.
func calendarDays(a, b time.Time) int {
	am := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, a.Location())
	bm := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, b.Location())
	return int(bm.Sub(am).Hours() / 24)
}
