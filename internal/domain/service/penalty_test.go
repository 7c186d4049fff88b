package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crediario/loan-engine/internal/domain/model"
	"github.com/crediario/loan-engine/internal/domain/service"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

func overdueInstallment(seq int, base float64, dueDate time.Time) model.Installment {
	amount := decimal.NewFromFloat(base)
	return model.Installment{
		Sequence:         seq,
		DueDate:          dueDate,
		BaseAmount:       amount,
		PaidAmount:       decimal.Zero,
		RemainingBalance: amount,
		Penalty:          decimal.Zero,
		LateInterest:     decimal.Zero,
	}
}

func TestAssess(t *testing.T) {
	engine := service.NewPenaltyEngine()
	due := dateOf(2026, 5, 10)
	asOf := dateOf(2026, 5, 15) // five days late

	noLate := valueobject.LateInterestConfig{}

	t.Run("per-day flat penalty accumulates per day", func(t *testing.T) {
		// Base 100, 2.00 per day, 5 days late: penalty 10, owed becomes 110.
		cfg := valueobject.PenaltyConfig{
			Enabled: true,
			Mode:    valueobject.PenaltyModePerDayFlat,
			Amount:  decimal.NewFromInt(2),
		}
		charges := engine.Assess([]model.Installment{overdueInstallment(1, 100, due)}, cfg, noLate, asOf)
		require.Len(t, charges, 1)
		assert.Equal(t, 5, charges[0].DaysLate)
		assert.True(t, charges[0].Penalty.Equal(decimal.NewFromInt(10)), "penalty %s", charges[0].Penalty)
	})

	t.Run("flat once ignores days late", func(t *testing.T) {
		cfg := valueobject.PenaltyConfig{
			Enabled: true,
			Mode:    valueobject.PenaltyModeFlatOnce,
			Amount:  decimal.NewFromInt(7),
		}
		charges := engine.Assess([]model.Installment{overdueInstallment(1, 100, due)}, cfg, noLate, asOf)
		require.Len(t, charges, 1)
		assert.True(t, charges[0].Penalty.Equal(decimal.NewFromInt(7)))
	})

	t.Run("per-day percent scales with the base", func(t *testing.T) {
		// 1% of 200 per day for 5 days: 10.
		cfg := valueobject.PenaltyConfig{
			Enabled: true,
			Mode:    valueobject.PenaltyModePerDayPercent,
			Amount:  decimal.NewFromFloat(0.01),
		}
		charges := engine.Assess([]model.Installment{overdueInstallment(1, 200, due)}, cfg, noLate, asOf)
		require.Len(t, charges, 1)
		assert.True(t, charges[0].Penalty.Equal(decimal.NewFromInt(10)), "penalty %s", charges[0].Penalty)
	})

	t.Run("target sequence scopes the penalty", func(t *testing.T) {
		target := 2
		cfg := valueobject.PenaltyConfig{
			Enabled:        true,
			Mode:           valueobject.PenaltyModeFlatOnce,
			Amount:         decimal.NewFromInt(5),
			TargetSequence: &target,
		}
		installments := []model.Installment{
			overdueInstallment(1, 100, due),
			overdueInstallment(2, 100, due),
		}
		charges := engine.Assess(installments, cfg, noLate, asOf)
		require.Len(t, charges, 1)
		assert.Equal(t, 2, charges[0].Sequence)
	})

	t.Run("not overdue produces no charge", func(t *testing.T) {
		cfg := valueobject.PenaltyConfig{
			Enabled: true,
			Mode:    valueobject.PenaltyModePerDayFlat,
			Amount:  decimal.NewFromInt(2),
		}
		future := overdueInstallment(1, 100, asOf.AddDate(0, 0, 1))
		charges := engine.Assess([]model.Installment{future}, cfg, noLate, asOf)
		assert.Empty(t, charges)
	})

	t.Run("paid installment is skipped", func(t *testing.T) {
		cfg := valueobject.PenaltyConfig{
			Enabled: true,
			Mode:    valueobject.PenaltyModePerDayFlat,
			Amount:  decimal.NewFromInt(2),
		}
		paid := overdueInstallment(1, 100, due)
		paid.Paid = true
		charges := engine.Assess([]model.Installment{paid}, cfg, noLate, asOf)
		assert.Empty(t, charges)
	})

	t.Run("late interest accrues without penalty", func(t *testing.T) {
		late := valueobject.LateInterestConfig{
			Enabled: true,
			Rate:    decimal.NewFromFloat(0.5),
		}
		charges := engine.Assess([]model.Installment{overdueInstallment(1, 100, due)},
			valueobject.PenaltyConfig{}, late, asOf)
		require.Len(t, charges, 1)
		assert.True(t, charges[0].Penalty.IsZero())
		assert.True(t, charges[0].LateInterest.Equal(decimal.NewFromFloat(2.5)), "late %s", charges[0].LateInterest)
	})
}

func TestLateInterestFor(t *testing.T) {
	inst := overdueInstallment(1, 100, dateOf(2026, 5, 10))

	t.Run("flat daily amount", func(t *testing.T) {
		cfg := valueobject.LateInterestConfig{Enabled: true, Rate: decimal.NewFromFloat(1.5)}
		got := service.LateInterestFor(inst, cfg, 4)
		assert.True(t, got.Equal(decimal.NewFromInt(6)), "got %s", got)
	})

	t.Run("percent of base per day", func(t *testing.T) {
		cfg := valueobject.LateInterestConfig{Enabled: true, Percent: true, Rate: decimal.NewFromFloat(0.02)}
		got := service.LateInterestFor(inst, cfg, 3)
		assert.True(t, got.Equal(decimal.NewFromInt(6)), "got %s", got)
	})

	t.Run("disabled config accrues nothing", func(t *testing.T) {
		cfg := valueobject.LateInterestConfig{Rate: decimal.NewFromFloat(1.5)}
		assert.True(t, service.LateInterestFor(inst, cfg, 4).IsZero())
	})

	t.Run("zero days late accrues nothing", func(t *testing.T) {
		cfg := valueobject.LateInterestConfig{Enabled: true, Rate: decimal.NewFromFloat(1.5)}
		assert.True(t, service.LateInterestFor(inst, cfg, 0).IsZero())
	})
}
