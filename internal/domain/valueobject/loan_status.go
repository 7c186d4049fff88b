package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents the lifecycle stage of a loan contract.
type LoanStatus struct {
	value string
}

const (
	loanStatusActive   = "ACTIVE"
	loanStatusSettled  = "SETTLED"
	loanStatusAdvanced = "ADVANCED"
	loanStatusCanceled = "CANCELED"
)

var (
	LoanStatusActive   = LoanStatus{value: loanStatusActive}
	LoanStatusSettled  = LoanStatus{value: loanStatusSettled}
	LoanStatusAdvanced = LoanStatus{value: loanStatusAdvanced}
	LoanStatusCanceled = LoanStatus{value: loanStatusCanceled}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusActive:   LoanStatusActive,
	loanStatusSettled:  LoanStatusSettled,
	loanStatusAdvanced: LoanStatusAdvanced,
	loanStatusCanceled: LoanStatusCanceled,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// InstallmentState – derived, not persisted as such
// ---------------------------------------------------------------------------

// InstallmentState is the position of one installment in the payment ledger
// state machine.
type InstallmentState struct {
	value string
}

const (
	installmentOpen          = "OPEN"
	installmentPartiallyPaid = "PARTIALLY_PAID"
	installmentPaid          = "PAID"
)

var (
	InstallmentStateOpen          = InstallmentState{value: installmentOpen}
	InstallmentStatePartiallyPaid = InstallmentState{value: installmentPartiallyPaid}
	InstallmentStatePaid          = InstallmentState{value: installmentPaid}
)

// String returns the string representation of the state.
func (s InstallmentState) String() string { return s.value }

// Equal returns true when both states carry the same value.
func (s InstallmentState) Equal(other InstallmentState) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
