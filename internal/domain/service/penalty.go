package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crediario/loan-engine/internal/domain/model"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
	"github.com/crediario/loan-engine/pkg/dates"
)

// PenaltyEngine assesses overdue charges against open installments. Assess is
// pure: nothing is persisted until the aggregate applies the assessment.
type PenaltyEngine struct{}

// NewPenaltyEngine creates the engine.
func NewPenaltyEngine() *PenaltyEngine {
	return &PenaltyEngine{}
}

// Assess computes penalty and late interest for every unpaid installment due
// before asOf, honouring the contract's penalty scope. Installments that are
// not overdue produce no charge.
func (e *PenaltyEngine) Assess(
	installments []model.Installment,
	penalty valueobject.PenaltyConfig,
	lateInterest valueobject.LateInterestConfig,
	asOf time.Time,
) []model.InstallmentCharge {
	var out []model.InstallmentCharge
	for _, inst := range installments {
		if !inst.OverdueAt(asOf) {
			continue
		}
		daysLate := dates.DaysBetween(inst.DueDate, asOf)
		if daysLate <= 0 {
			continue
		}

		charge := model.InstallmentCharge{
			Sequence:     inst.Sequence,
			DaysLate:     daysLate,
			Penalty:      decimal.Zero,
			LateInterest: LateInterestFor(inst, lateInterest, daysLate),
		}

		if penalty.Enabled && inTargetScope(penalty, inst.Sequence) {
			charge.Penalty = penaltyFor(inst, penalty, daysLate)
		}

		if charge.Penalty.IsZero() && charge.LateInterest.IsZero() {
			continue
		}
		out = append(out, charge)
	}
	return out
}

// LateInterestFor computes the on-the-fly late interest of one installment.
// Quote paths call this directly so that unapplied charges are never
// persisted.
func LateInterestFor(inst model.Installment, cfg valueobject.LateInterestConfig, daysLate int) decimal.Decimal {
	if !cfg.Active() || daysLate <= 0 {
		return decimal.Zero
	}
	perDay := cfg.Rate
	if cfg.Percent {
		perDay = cfg.Rate.Mul(inst.BaseAmount)
	}
	return perDay.Mul(decimal.NewFromInt(int64(daysLate)))
}

func penaltyFor(inst model.Installment, cfg valueobject.PenaltyConfig, daysLate int) decimal.Decimal {
	switch cfg.Mode {
	case valueobject.PenaltyModeFlatOnce:
		return cfg.Amount
	case valueobject.PenaltyModePerDayFlat:
		return cfg.Amount.Mul(decimal.NewFromInt(int64(daysLate)))
	case valueobject.PenaltyModePerDayPercent:
		return cfg.Amount.Mul(inst.BaseAmount).Mul(decimal.NewFromInt(int64(daysLate)))
	default:
		return decimal.Zero
	}
}

func inTargetScope(cfg valueobject.PenaltyConfig, sequence int) bool {
	return cfg.TargetSequence == nil || *cfg.TargetSequence == sequence
}
