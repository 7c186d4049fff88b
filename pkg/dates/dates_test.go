package dates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crediario/loan-engine/pkg/dates"
)

func TestDay(t *testing.T) {
	in := time.Date(2026, 3, 15, 17, 45, 12, 999, time.FixedZone("X", -3*3600))
	got := dates.Day(in)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 1, 10, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 1, 15, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 5, dates.DaysBetween(a, b))
	assert.Equal(t, -5, dates.DaysBetween(b, a))
	assert.Equal(t, 0, dates.DaysBetween(a, a))
}

func TestAddMonthsClamped(t *testing.T) {
	t.Run("clamps to end of shorter month", func(t *testing.T) {
		jan31 := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), dates.AddMonthsClamped(jan31, 1))
	})

	t.Run("leap year february", func(t *testing.T) {
		jan31 := time.Date(2028, 1, 31, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC), dates.AddMonthsClamped(jan31, 1))
	})

	t.Run("plain month addition", func(t *testing.T) {
		d := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), dates.AddMonthsClamped(d, 3))
	})

	t.Run("year rollover", func(t *testing.T) {
		d := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2027, 2, 28, 0, 0, 0, 0, time.UTC), dates.AddMonthsClamped(d, 3))
	})
}

func TestNextWeekday(t *testing.T) {
	// 2026-08-31 is a Monday.
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, monday, dates.NextWeekday(monday, time.Monday))
	assert.Equal(t, monday.AddDate(0, 0, 4), dates.NextWeekday(monday, time.Friday))
	assert.Equal(t, monday.AddDate(0, 0, 6), dates.NextWeekday(monday, time.Sunday))
}
