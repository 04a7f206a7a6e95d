package recurring

import "time"

// NextAfter returns the scheduled date one period after t. Month-based
// frequencies clamp the day-of-month to the target month's length, and the
// clamped day persists for later occurrences because each date is computed
// from the previous one: a monthly schedule from Jan 31 runs Feb 29 (leap
// year), then Mar 29, never snapping back to the 31st. Unknown frequencies
// return t unchanged; callers validate first.
func NextAfter(t time.Time, f Frequency) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return addMonthsClamped(t, 1)
	case FrequencyQuarterly:
		return addMonthsClamped(t, 3)
	case FrequencyYearly:
		return addMonthsClamped(t, 12)
	}

	return t
}

// addMonthsClamped adds months without the day-overflow normalization of
// time.AddDate (which turns Jan 31 + 1 month into Mar 2/3).
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()

	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()

	if d > lastDay {
		d = lastDay
	}

	h, min, sec := t.Clock()

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, h, min, sec, t.Nanosecond(), t.Location())
}
