package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

// Payment is one row of the audit ledger. Rows are never deleted; a reversal
// marks the row and balances are rebuilt from the surviving history.
type Payment struct {
	ID              string
	LoanID          string
	InstallmentSeq  *int
	Type            valueobject.PaymentType
	Amount          decimal.Decimal
	InterestPortion decimal.Decimal
	PaymentDate     time.Time
	RecordedBy      string
	CreatedAt       time.Time
	ReversedAt      *time.Time
	ReversedBy      *string
	ReversalReason  *string
	Metadata        map[string]string
}

// Reversed reports whether the payment has been financially undone.
func (p Payment) Reversed() bool {
	return p.ReversedAt != nil
}

// CountsTowardPrincipal reports whether the row contributes to an
// installment's accumulated-paid figure.
func (p Payment) CountsTowardPrincipal() bool {
	return !p.Reversed() && p.Type.ReducesPrincipal()
}
