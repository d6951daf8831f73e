package credit

import "time"

// WithinNextThreeMonths reports whether d falls no later than three months
// from today. A nil date is treated as valid; absence is not this rule's
// concern. Only the calendar date matters, not the time of day or the
// location the date was parsed in.
func WithinNextThreeMonths(d *time.Time) bool {
	if d == nil {
		return true
	}
	limit := dateOf(time.Now()).AddDate(0, 3, 0)
	return !dateOf(*d).After(limit)
}

// dateOf pins t's calendar date to UTC midnight so two values naming the
// same date compare equal even when their locations differ.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
