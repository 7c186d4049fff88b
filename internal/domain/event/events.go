package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crediario/loan-engine/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Loan lifecycle events
// ---------------------------------------------------------------------------

// LoanCreated is raised when a contract is created and its schedule generated.
type LoanCreated struct {
	events.BaseEvent
	BorrowerID       string          `json:"borrower_id"`
	Principal        decimal.Decimal `json:"principal"`
	TotalPayable     decimal.Decimal `json:"total_payable"`
	InstallmentCount int             `json:"installment_count"`
	Cadence          string          `json:"cadence"`
	InterestMode     string          `json:"interest_mode"`
	FirstDueDate     time.Time       `json:"first_due_date"`
}

func NewLoanCreated(
	loanID, tenantID, borrowerID string,
	principal, totalPayable decimal.Decimal,
	installmentCount int, cadence, interestMode string,
	firstDueDate time.Time,
) LoanCreated {
	return LoanCreated{
		BaseEvent:        events.NewBaseEvent("loans.loan.created", loanID, "Loan", tenantID),
		BorrowerID:       borrowerID,
		Principal:        principal,
		TotalPayable:     totalPayable,
		InstallmentCount: installmentCount,
		Cadence:          cadence,
		InterestMode:     interestMode,
		FirstDueDate:     firstDueDate,
	}
}

// LoanSettled is raised when all installments of a loan are paid.
type LoanSettled struct {
	events.BaseEvent
}

func NewLoanSettled(loanID, tenantID string) LoanSettled {
	return LoanSettled{
		BaseEvent: events.NewBaseEvent("loans.loan.settled", loanID, "Loan", tenantID),
	}
}

// ---------------------------------------------------------------------------
// Ledger events
// ---------------------------------------------------------------------------

// PaymentApplied is raised once per ledger operation that adds payment rows.
type PaymentApplied struct {
	events.BaseEvent
	PaymentType    string          `json:"payment_type"`
	Amount         decimal.Decimal `json:"amount"`
	InstallmentSeq *int            `json:"installment_seq,omitempty"`
	Outstanding    decimal.Decimal `json:"outstanding_balance"`
}

func NewPaymentApplied(
	loanID, tenantID, paymentType string,
	amount decimal.Decimal,
	installmentSeq *int,
	outstanding decimal.Decimal,
) PaymentApplied {
	return PaymentApplied{
		BaseEvent:      events.NewBaseEvent("loans.payment.applied", loanID, "Loan", tenantID),
		PaymentType:    paymentType,
		Amount:         amount,
		InstallmentSeq: installmentSeq,
		Outstanding:    outstanding,
	}
}

// PaymentReversed is raised when a payment row is marked reversed and the
// balances rebuilt.
type PaymentReversed struct {
	events.BaseEvent
	PaymentID   string          `json:"payment_id"`
	PaymentType string          `json:"payment_type"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	Outstanding decimal.Decimal `json:"outstanding_balance"`
}

func NewPaymentReversed(
	loanID, tenantID, paymentID, paymentType string,
	amount decimal.Decimal,
	reason string,
	outstanding decimal.Decimal,
) PaymentReversed {
	return PaymentReversed{
		BaseEvent:   events.NewBaseEvent("loans.payment.reversed", loanID, "Loan", tenantID),
		PaymentID:   paymentID,
		PaymentType: paymentType,
		Amount:      amount,
		Reason:      reason,
		Outstanding: outstanding,
	}
}

// PenaltyApplied is raised when overdue charges are persisted on installments.
type PenaltyApplied struct {
	events.BaseEvent
	Installments      []int           `json:"installments"`
	TotalPenalty      decimal.Decimal `json:"total_penalty"`
	TotalLateInterest decimal.Decimal `json:"total_late_interest"`
}

func NewPenaltyApplied(
	loanID, tenantID string,
	installments []int,
	totalPenalty, totalLateInterest decimal.Decimal,
) PenaltyApplied {
	return PenaltyApplied{
		BaseEvent:         events.NewBaseEvent("loans.penalty.applied", loanID, "Loan", tenantID),
		Installments:      installments,
		TotalPenalty:      totalPenalty,
		TotalLateInterest: totalLateInterest,
	}
}

// ---------------------------------------------------------------------------
// Scoring events
// ---------------------------------------------------------------------------

// ScoreComputed is raised when a borrower's credit score snapshot is taken.
type ScoreComputed struct {
	events.BaseEvent
	Score int    `json:"score"`
	Band  string `json:"band"`
}

func NewScoreComputed(borrowerID, tenantID string, score int, band string) ScoreComputed {
	return ScoreComputed{
		BaseEvent: events.NewBaseEvent("loans.score.computed", borrowerID, "Borrower", tenantID),
		Score:     score,
		Band:      band,
	}
}
