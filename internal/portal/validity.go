package portal

import "time"

// IsValidAt decides whether a dated record is active on the given day.
// All three instants are truncated to their own calendar date before
// comparing, so time-of-day and in-day timezone offsets never matter.
// Bounds are inclusive; a nil bound is unbounded on that side.
func IsValidAt(from, till *time.Time, today time.Time) bool {
	day := midnight(today)
	if from != nil && midnight(*from).After(day) {
		return false
	}
	if till != nil && midnight(*till).Before(day) {
		return false
	}
	return true
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
