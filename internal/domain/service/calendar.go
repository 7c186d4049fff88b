package service

import (
	"time"

	"github.com/crediario/loan-engine/internal/domain/valueobject"
	"github.com/crediario/loan-engine/pkg/dates"
)

// HolidayCalendar answers whether a date is a holiday in the jurisdiction the
// book operates in. Implementations are injected; the adjuster never owns the
// set itself.
type HolidayCalendar interface {
	IsHoliday(d time.Time) bool
}

// HolidaySet is a HolidayCalendar backed by an in-memory date set.
type HolidaySet map[time.Time]struct{}

// NewHolidaySet builds a set from the given dates, truncated to day precision.
func NewHolidaySet(days ...time.Time) HolidaySet {
	s := make(HolidaySet, len(days))
	for _, d := range days {
		s[dates.Day(d)] = struct{}{}
	}
	return s
}

// IsHoliday reports whether d is in the set.
func (s HolidaySet) IsHoliday(d time.Time) bool {
	_, ok := s[dates.Day(d)]
	return ok
}

// CalendarAdjuster shifts dates forward until they satisfy a contract's
// collectability rules.
type CalendarAdjuster struct {
	holidays HolidayCalendar
}

// NewCalendarAdjuster creates an adjuster over the given holiday calendar.
// A nil calendar means no holidays.
func NewCalendarAdjuster(holidays HolidayCalendar) *CalendarAdjuster {
	if holidays == nil {
		holidays = HolidaySet{}
	}
	return &CalendarAdjuster{holidays: holidays}
}

// NextCollectable advances d one day at a time while it falls on an excluded
// Saturday, Sunday or holiday. It terminates for any sparse, finite holiday
// set because each step moves strictly forward.
func (a *CalendarAdjuster) NextCollectable(d time.Time, rules valueobject.CollectionRules) time.Time {
	d = dates.Day(d)
	for a.excluded(d, rules) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func (a *CalendarAdjuster) excluded(d time.Time, rules valueobject.CollectionRules) bool {
	switch d.Weekday() {
	case time.Saturday:
		if !rules.AllowSaturday {
			return true
		}
	case time.Sunday:
		if !rules.AllowSunday {
			return true
		}
	}
	return !rules.AllowHoliday && a.holidays.IsHoliday(d)
}
