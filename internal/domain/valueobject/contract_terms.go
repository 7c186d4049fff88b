package valueobject

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// CollectionRules – calendar exclusion flags
// ---------------------------------------------------------------------------

// CollectionRules are the day-exclusion flags of a contract. A false flag
// means due dates may not fall on that kind of day.
type CollectionRules struct {
	AllowSaturday bool
	AllowSunday   bool
	AllowHoliday  bool
}

// ---------------------------------------------------------------------------
// Penalty and late-interest configuration
// ---------------------------------------------------------------------------

// PenaltyMode selects how an overdue penalty is computed.
type PenaltyMode struct {
	value string
}

const (
	penaltyFlatOnce      = "FLAT_ONCE"
	penaltyPerDayFlat    = "PER_DAY_FLAT"
	penaltyPerDayPercent = "PER_DAY_PERCENT"
)

var (
	PenaltyModeFlatOnce      = PenaltyMode{value: penaltyFlatOnce}
	PenaltyModePerDayFlat    = PenaltyMode{value: penaltyPerDayFlat}
	PenaltyModePerDayPercent = PenaltyMode{value: penaltyPerDayPercent}
)

var validPenaltyModes = map[string]PenaltyMode{
	penaltyFlatOnce:      PenaltyModeFlatOnce,
	penaltyPerDayFlat:    PenaltyModePerDayFlat,
	penaltyPerDayPercent: PenaltyModePerDayPercent,
}

// NewPenaltyMode creates a PenaltyMode from a raw string.
func NewPenaltyMode(s string) (PenaltyMode, error) {
	v, ok := validPenaltyModes[s]
	if !ok {
		return PenaltyMode{}, fmt.Errorf("invalid penalty mode: %q", s)
	}
	return v, nil
}

// String returns the string representation of the mode.
func (m PenaltyMode) String() string { return m.value }

// IsZero returns true if the mode has not been initialised.
func (m PenaltyMode) IsZero() bool { return m.value == "" }

// Equal returns true when both modes carry the same value.
func (m PenaltyMode) Equal(other PenaltyMode) bool { return m.value == other.value }

// PerDay reports whether the penalty scales with days late.
func (m PenaltyMode) PerDay() bool { return m.value != penaltyFlatOnce }

// PenaltyConfig is the typed penalty policy of a contract. Scope targets all
// currently overdue installments when TargetSequence is nil, or a single
// installment number otherwise.
type PenaltyConfig struct {
	Enabled        bool
	Mode           PenaltyMode
	Amount         decimal.Decimal // flat value, or percentage of base for PER_DAY_PERCENT
	TargetSequence *int
}

// LateInterestConfig is the typed late-interest policy of a contract. When
// Percent is true, Rate is a daily fraction of the installment base;
// otherwise it is a flat daily amount.
type LateInterestConfig struct {
	Enabled bool
	Percent bool
	Rate    decimal.Decimal
}

// Active reports whether late interest accrues at all.
func (c LateInterestConfig) Active() bool {
	return c.Enabled && c.Rate.IsPositive()
}

// ---------------------------------------------------------------------------
// ContractTerms – typed replacement for the loose per-contract overrides bag
// ---------------------------------------------------------------------------

// ContractTerms collects the optional per-contract overrides. It is validated
// once at the boundary; downstream code reads the typed fields directly.
type ContractTerms struct {
	// ManualTotal replaces the rate-derived total receivable; the effective
	// rate is solved back from it.
	ManualTotal *decimal.Decimal

	// FixedWeekday anchors weekly/biweekly schedules to one weekday.
	FixedWeekday *time.Weekday

	Rules        CollectionRules
	Penalty      PenaltyConfig
	LateInterest LateInterestConfig
}

// Validate checks the terms once. It performs no mutation.
func (t ContractTerms) Validate(cadence Cadence) error {
	if t.ManualTotal != nil && !t.ManualTotal.IsPositive() {
		return errors.New("manual total must be positive")
	}
	if t.FixedWeekday != nil && !cadence.SupportsFixedWeekday() {
		return fmt.Errorf("fixed weekday is not supported for cadence %s", cadence)
	}
	if t.Penalty.Enabled {
		if t.Penalty.Mode.IsZero() {
			return errors.New("penalty mode is required when penalty is enabled")
		}
		if t.Penalty.Amount.IsNegative() {
			return errors.New("penalty amount must not be negative")
		}
		if t.Penalty.TargetSequence != nil && *t.Penalty.TargetSequence <= 0 {
			return errors.New("penalty target installment must be positive")
		}
	}
	if t.LateInterest.Enabled && t.LateInterest.Rate.IsNegative() {
		return errors.New("late interest rate must not be negative")
	}
	return nil
}
