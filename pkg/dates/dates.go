// Package dates provides calendar-day arithmetic used by the scheduling and
// accrual code. All helpers operate on dates truncated to midnight UTC so that
// day differences are exact integers regardless of the wall-clock component.
package dates

import "time"

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b. Negative when b is
// before a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// AddMonthsClamped adds months to t, clamping the day-of-month to the last
// valid day of the target month instead of letting time.AddDate roll over
// (Jan 31 + 1 month = Feb 28/29, not Mar 2/3).
func AddMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	last := daysInMonth(first.Year(), first.Month())
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// NextWeekday returns the first date at or after t that falls on wd (advances
// 0-6 days).
func NextWeekday(t time.Time, wd time.Weekday) time.Time {
	t = Day(t)
	offset := (int(wd) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
