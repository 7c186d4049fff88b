package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// Cadence – spacing pattern between installments
// ---------------------------------------------------------------------------

// Cadence represents the spacing pattern between installment due dates.
type Cadence struct {
	value string
}

const (
	cadenceDaily    = "DAILY"
	cadenceWeekly   = "WEEKLY"
	cadenceBiweekly = "BIWEEKLY"
	cadenceMonthly  = "MONTHLY"
)

var (
	CadenceDaily    = Cadence{value: cadenceDaily}
	CadenceWeekly   = Cadence{value: cadenceWeekly}
	CadenceBiweekly = Cadence{value: cadenceBiweekly}
	CadenceMonthly  = Cadence{value: cadenceMonthly}
)

var validCadences = map[string]Cadence{
	cadenceDaily:    CadenceDaily,
	cadenceWeekly:   CadenceWeekly,
	cadenceBiweekly: CadenceBiweekly,
	cadenceMonthly:  CadenceMonthly,
}

// NewCadence creates a Cadence from a raw string.
func NewCadence(s string) (Cadence, error) {
	v, ok := validCadences[s]
	if !ok {
		return Cadence{}, fmt.Errorf("invalid cadence: %q", s)
	}
	return v, nil
}

// String returns the string representation of the cadence.
func (c Cadence) String() string { return c.value }

// IsZero returns true if the cadence has not been initialised.
func (c Cadence) IsZero() bool { return c.value == "" }

// Equal returns true when both cadences carry the same value.
func (c Cadence) Equal(other Cadence) bool { return c.value == other.value }

// DayStep returns the fixed day interval for day-based cadences, or 0 for
// the monthly cadence which advances by calendar months.
func (c Cadence) DayStep() int {
	switch c.value {
	case cadenceDaily:
		return 1
	case cadenceWeekly:
		return 7
	case cadenceBiweekly:
		return 14
	default:
		return 0
	}
}

// SupportsFixedWeekday reports whether a schedule with this cadence may be
// anchored to a fixed weekday.
func (c Cadence) SupportsFixedWeekday() bool {
	return c.value == cadenceWeekly || c.value == cadenceBiweekly
}

// ---------------------------------------------------------------------------
// InterestMode – how the contract total is derived from the rate
// ---------------------------------------------------------------------------

// InterestMode selects one of the three interest models.
type InterestMode struct {
	value string
}

const (
	interestPerInstallment = "PER_INSTALLMENT"
	interestFixedTotal     = "FIXED_TOTAL"
	interestAnnuity        = "ANNUITY"
)

var (
	InterestModePerInstallment = InterestMode{value: interestPerInstallment}
	InterestModeFixedTotal     = InterestMode{value: interestFixedTotal}
	InterestModeAnnuity        = InterestMode{value: interestAnnuity}
)

var validInterestModes = map[string]InterestMode{
	interestPerInstallment: InterestModePerInstallment,
	interestFixedTotal:     InterestModeFixedTotal,
	interestAnnuity:        InterestModeAnnuity,
}

// NewInterestMode creates an InterestMode from a raw string.
func NewInterestMode(s string) (InterestMode, error) {
	v, ok := validInterestModes[s]
	if !ok {
		return InterestMode{}, fmt.Errorf("invalid interest mode: %q", s)
	}
	return v, nil
}

// String returns the string representation of the mode.
func (m InterestMode) String() string { return m.value }

// IsZero returns true if the mode has not been initialised.
func (m InterestMode) IsZero() bool { return m.value == "" }

// Equal returns true when both modes carry the same value.
func (m InterestMode) Equal(other InterestMode) bool { return m.value == other.value }
