package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crediario/loan-engine/internal/domain/service"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

func openRules() valueobject.CollectionRules {
	return valueobject.CollectionRules{AllowSaturday: true, AllowSunday: true, AllowHoliday: true}
}

func dateOf(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDueDates(t *testing.T) {
	gen := service.NewScheduleGenerator(service.NewCalendarAdjuster(nil))

	t.Run("monthly series clamps the day of month", func(t *testing.T) {
		first := dateOf(2026, 1, 31)
		got, err := gen.DueDates(service.ScheduleInput{
			FirstDueDate: &first,
			Count:        4,
			Cadence:      valueobject.CadenceMonthly,
			Rules:        openRules(),
		})
		require.NoError(t, err)
		assert.Equal(t, []time.Time{
			dateOf(2026, 1, 31),
			dateOf(2026, 2, 28),
			dateOf(2026, 3, 31),
			dateOf(2026, 4, 30),
		}, got)
	})

	t.Run("contract date plus grace seeds the base", func(t *testing.T) {
		got, err := gen.DueDates(service.ScheduleInput{
			ContractDate: dateOf(2026, 3, 10),
			GraceDays:    5,
			Count:        2,
			Cadence:      valueobject.CadenceDaily,
			Rules:        openRules(),
		})
		require.NoError(t, err)
		assert.Equal(t, []time.Time{dateOf(2026, 3, 15), dateOf(2026, 3, 16)}, got)
	})

	t.Run("weekly with fixed weekday aligns once", func(t *testing.T) {
		// 2026-03-10 is a Tuesday; first Friday at or after is 03-13.
		friday := time.Friday
		first := dateOf(2026, 3, 10)
		got, err := gen.DueDates(service.ScheduleInput{
			FirstDueDate: &first,
			Count:        3,
			Cadence:      valueobject.CadenceWeekly,
			FixedWeekday: &friday,
			Rules:        openRules(),
		})
		require.NoError(t, err)
		assert.Equal(t, []time.Time{
			dateOf(2026, 3, 13),
			dateOf(2026, 3, 20),
			dateOf(2026, 3, 27),
		}, got)
	})

	t.Run("exclusion shifts do not accumulate", func(t *testing.T) {
		// Base lands on a Saturday; each weekly date shifts independently to
		// Monday but the series stays anchored on the Saturday base.
		first := dateOf(2026, 9, 5)
		got, err := gen.DueDates(service.ScheduleInput{
			FirstDueDate: &first,
			Count:        3,
			Cadence:      valueobject.CadenceWeekly,
			Rules:        valueobject.CollectionRules{AllowHoliday: true},
		})
		require.NoError(t, err)
		assert.Equal(t, []time.Time{
			dateOf(2026, 9, 7),
			dateOf(2026, 9, 14),
			dateOf(2026, 9, 21),
		}, got)
	})

	t.Run("biweekly step is fourteen days", func(t *testing.T) {
		first := dateOf(2026, 3, 2)
		got, err := gen.DueDates(service.ScheduleInput{
			FirstDueDate: &first,
			Count:        3,
			Cadence:      valueobject.CadenceBiweekly,
			Rules:        openRules(),
		})
		require.NoError(t, err)
		assert.Equal(t, []time.Time{
			dateOf(2026, 3, 2),
			dateOf(2026, 3, 16),
			dateOf(2026, 3, 30),
		}, got)
	})

	t.Run("fixed weekday rejected for monthly", func(t *testing.T) {
		friday := time.Friday
		first := dateOf(2026, 3, 10)
		_, err := gen.DueDates(service.ScheduleInput{
			FirstDueDate: &first,
			Count:        2,
			Cadence:      valueobject.CadenceMonthly,
			FixedWeekday: &friday,
			Rules:        openRules(),
		})
		assert.Error(t, err)
	})

	t.Run("zero count rejected", func(t *testing.T) {
		first := dateOf(2026, 3, 10)
		_, err := gen.DueDates(service.ScheduleInput{
			FirstDueDate: &first,
			Cadence:      valueobject.CadenceMonthly,
			Rules:        openRules(),
		})
		assert.Error(t, err)
	})
}

func TestBuildInstallments(t *testing.T) {
	dueDates := []time.Time{dateOf(2026, 1, 10), dateOf(2026, 2, 10), dateOf(2026, 3, 10)}

	t.Run("last installment absorbs the rounding remainder", func(t *testing.T) {
		total := decimal.NewFromFloat(100.00)
		per := decimal.NewFromFloat(33.33)

		got := service.BuildInstallments(dueDates, total, per)
		require.Len(t, got, 3)

		assert.True(t, got[0].BaseAmount.Equal(per))
		assert.True(t, got[1].BaseAmount.Equal(per))
		assert.True(t, got[2].BaseAmount.Equal(decimal.NewFromFloat(33.34)))

		sum := decimal.Zero
		for _, inst := range got {
			sum = sum.Add(inst.BaseAmount)
			assert.True(t, inst.RemainingBalance.Equal(inst.BaseAmount))
			assert.False(t, inst.Paid)
		}
		assert.True(t, sum.Equal(total))
	})

	t.Run("sequences are one-based and dates preserved", func(t *testing.T) {
		got := service.BuildInstallments(dueDates, decimal.NewFromInt(300), decimal.NewFromInt(100))
		for i, inst := range got {
			assert.Equal(t, i+1, inst.Sequence)
			assert.Equal(t, dueDates[i], inst.DueDate)
		}
	})
}
