// Package window computes reset-window boundaries for counters.
//
// A counter's "current" value is the sum of its increments inside the
// window that started at the most recent reset. Boundaries are computed
// in the location of the reference instant so that resets line up with
// the user's day/week/month, including across DST transitions.
package window

import "time"

// Reset is the recurrence rule that bounds a counter's current window.
type Reset string

const (
	Never Reset = "NEVER"
	Day   Reset = "DAY"
	Week  Reset = "WEEK"
	Month Reset = "MONTH"
)

// Start returns the beginning of the window containing now. The second
// return value is false for Never, whose window is unbounded.
//
// weekStart names the first day of the week and only matters for Week.
func Start(r Reset, now time.Time, weekStart time.Weekday) (time.Time, bool) {
	switch r {
	case Day:
		return dayStart(now), true
	case Week:
		d := dayStart(now)
		back := (int(d.Weekday()) - int(weekStart) + 7) % 7
		return d.AddDate(0, 0, -back), true
	case Month:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
