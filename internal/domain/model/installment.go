package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

// Installment is one scheduled partial payment of a loan. Balances are only
// mutated through the Loan aggregate, which rebuilds them from the payment
// ledger.
type Installment struct {
	Sequence         int
	DueDate          time.Time
	BaseAmount       decimal.Decimal
	PaidAmount       decimal.Decimal
	RemainingBalance decimal.Decimal
	Paid             bool
	PaidAt           *time.Time
	Penalty          decimal.Decimal
	LateInterest     decimal.Decimal
	PenaltyAppliedAt *time.Time
}

// Owed returns base plus the charges persisted on the installment.
func (i Installment) Owed() decimal.Decimal {
	return i.BaseAmount.Add(i.Penalty).Add(i.LateInterest)
}

// State derives the ledger state machine position of the installment.
func (i Installment) State() valueobject.InstallmentState {
	switch {
	case i.Paid:
		return valueobject.InstallmentStatePaid
	case i.PaidAmount.IsPositive():
		return valueobject.InstallmentStatePartiallyPaid
	default:
		return valueobject.InstallmentStateOpen
	}
}

// OverdueAt reports whether the installment is unpaid and past due as of the
// given date.
func (i Installment) OverdueAt(asOf time.Time) bool {
	return !i.Paid && i.DueDate.Before(asOf)
}
