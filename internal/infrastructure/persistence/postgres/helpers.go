package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

// termsRecord is the jsonb shape of a contract's terms. Penalty and late
// interest travel inside the same document so the loans table stays flat.
type termsRecord struct {
	ManualTotal    *decimal.Decimal `json:"manual_total,omitempty"`
	FixedWeekday   *int             `json:"fixed_weekday,omitempty"`
	AllowSaturday  bool             `json:"allow_saturday"`
	AllowSunday    bool             `json:"allow_sunday"`
	AllowHoliday   bool             `json:"allow_holiday"`
	PenaltyEnabled bool             `json:"penalty_enabled"`
	PenaltyMode    string           `json:"penalty_mode,omitempty"`
	PenaltyAmount  decimal.Decimal  `json:"penalty_amount"`
	PenaltyTarget  *int             `json:"penalty_target,omitempty"`
	LateEnabled    bool             `json:"late_enabled"`
	LatePercent    bool             `json:"late_percent"`
	LateRate       decimal.Decimal  `json:"late_rate"`
}

func termsToRecord(t valueobject.ContractTerms) termsRecord {
	rec := termsRecord{
		ManualTotal:    t.ManualTotal,
		AllowSaturday:  t.Rules.AllowSaturday,
		AllowSunday:    t.Rules.AllowSunday,
		AllowHoliday:   t.Rules.AllowHoliday,
		PenaltyEnabled: t.Penalty.Enabled,
		PenaltyAmount:  t.Penalty.Amount,
		PenaltyTarget:  t.Penalty.TargetSequence,
		LateEnabled:    t.LateInterest.Enabled,
		LatePercent:    t.LateInterest.Percent,
		LateRate:       t.LateInterest.Rate,
	}
	if t.FixedWeekday != nil {
		wd := int(*t.FixedWeekday)
		rec.FixedWeekday = &wd
	}
	if !t.Penalty.Mode.IsZero() {
		rec.PenaltyMode = t.Penalty.Mode.String()
	}
	return rec
}

func (rec termsRecord) toTerms() valueobject.ContractTerms {
	terms := valueobject.ContractTerms{
		ManualTotal: rec.ManualTotal,
		Rules: valueobject.CollectionRules{
			AllowSaturday: rec.AllowSaturday,
			AllowSunday:   rec.AllowSunday,
			AllowHoliday:  rec.AllowHoliday,
		},
		Penalty: valueobject.PenaltyConfig{
			Enabled:        rec.PenaltyEnabled,
			Amount:         rec.PenaltyAmount,
			TargetSequence: rec.PenaltyTarget,
		},
		LateInterest: valueobject.LateInterestConfig{
			Enabled: rec.LateEnabled,
			Percent: rec.LatePercent,
			Rate:    rec.LateRate,
		},
	}
	if rec.FixedWeekday != nil {
		wd := time.Weekday(*rec.FixedWeekday)
		terms.FixedWeekday = &wd
	}
	if rec.PenaltyMode != "" {
		if mode, err := valueobject.NewPenaltyMode(rec.PenaltyMode); err == nil {
			terms.Penalty.Mode = mode
		}
	}
	return terms
}
