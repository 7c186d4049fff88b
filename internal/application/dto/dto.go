package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreateLoanRequest carries the data needed to originate a new loan contract.
type CreateLoanRequest struct {
	TenantID         string                     `json:"tenant_id"`
	BorrowerID       string                     `json:"borrower_id"`
	Principal        decimal.Decimal            `json:"principal"`
	NominalRate      decimal.Decimal            `json:"nominal_rate"`
	InterestMode     string                     `json:"interest_mode"`
	InstallmentCount int                        `json:"installment_count"`
	Cadence          string                     `json:"cadence"`
	ContractDate     time.Time                  `json:"contract_date"`
	GraceDays        int                        `json:"grace_days"`
	FirstDueDate     *time.Time                 `json:"first_due_date,omitempty"`
	FixedWeekday     *time.Weekday              `json:"fixed_weekday,omitempty"`
	ManualTotal      *decimal.Decimal           `json:"manual_total,omitempty"`
	AllowSaturday    bool                       `json:"allow_saturday"`
	AllowSunday      bool                       `json:"allow_sunday"`
	AllowHoliday     bool                       `json:"allow_holiday"`
	Penalty          *PenaltyConfigRequest      `json:"penalty,omitempty"`
	LateInterest     *LateInterestConfigRequest `json:"late_interest,omitempty"`
}

// PenaltyConfigRequest configures the per-contract penalty rule.
type PenaltyConfigRequest struct {
	Mode           string          `json:"mode"`
	Amount         decimal.Decimal `json:"amount"`
	TargetSequence *int            `json:"target_sequence,omitempty"`
}

// LateInterestConfigRequest configures the per-contract late interest rule.
type LateInterestConfigRequest struct {
	Percent bool            `json:"percent"`
	Rate    decimal.Decimal `json:"rate"`
}

// SimulateLoanRequest carries the inputs for a contract simulation; no loan
// is persisted.
type SimulateLoanRequest struct {
	TenantID         string           `json:"tenant_id"`
	Principal        decimal.Decimal  `json:"principal"`
	NominalRate      decimal.Decimal  `json:"nominal_rate"`
	InterestMode     string           `json:"interest_mode"`
	InstallmentCount int              `json:"installment_count"`
	Cadence          string           `json:"cadence"`
	ContractDate     time.Time        `json:"contract_date"`
	GraceDays        int              `json:"grace_days"`
	FirstDueDate     *time.Time       `json:"first_due_date,omitempty"`
	FixedWeekday     *time.Weekday    `json:"fixed_weekday,omitempty"`
	ManualTotal      *decimal.Decimal `json:"manual_total,omitempty"`
	AllowSaturday    bool             `json:"allow_saturday"`
	AllowSunday      bool             `json:"allow_sunday"`
	AllowHoliday     bool             `json:"allow_holiday"`
}

// SolveRateRequest asks for the nominal rate implied by a target total.
type SolveRateRequest struct {
	Principal        decimal.Decimal `json:"principal"`
	TargetTotal      decimal.Decimal `json:"target_total"`
	InterestMode     string          `json:"interest_mode"`
	InstallmentCount int             `json:"installment_count"`
}

// ApplyPaymentRequest carries the data for a payment against one installment.
// Kind selects the collection flavor: full, partial, advance or interest_only.
type ApplyPaymentRequest struct {
	TenantID     string           `json:"tenant_id"`
	LoanID       string           `json:"loan_id"`
	Sequence     int              `json:"sequence"`
	Kind         string           `json:"kind"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	FullInterest bool             `json:"full_interest"`
	RescheduleTo *time.Time       `json:"reschedule_to,omitempty"`
	PaymentDate  time.Time        `json:"payment_date"`
	ActorID      string           `json:"actor_id"`
	ActorRole    string           `json:"actor_role"`
}

// SettleLoanRequest pays off every open installment of a loan at once.
type SettleLoanRequest struct {
	TenantID    string    `json:"tenant_id"`
	LoanID      string    `json:"loan_id"`
	PaymentDate time.Time `json:"payment_date"`
	ActorID     string    `json:"actor_id"`
	ActorRole   string    `json:"actor_role"`
}

// ApplyDiscountRequest forgives part of the outstanding balance.
type ApplyDiscountRequest struct {
	TenantID  string          `json:"tenant_id"`
	LoanID    string          `json:"loan_id"`
	Amount    decimal.Decimal `json:"amount"`
	Sequences []int           `json:"sequences,omitempty"`
	ActorID   string          `json:"actor_id"`
	ActorRole string          `json:"actor_role"`
}

// ReversePaymentRequest undoes a previously recorded payment.
type ReversePaymentRequest struct {
	TenantID  string `json:"tenant_id"`
	LoanID    string `json:"loan_id"`
	PaymentID string `json:"payment_id"`
	Reason    string `json:"reason"`
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
}

// ApplyPenaltiesRequest assesses overdue charges for one loan as of a date.
type ApplyPenaltiesRequest struct {
	TenantID string    `json:"tenant_id"`
	LoanID   string    `json:"loan_id"`
	AsOf     time.Time `json:"as_of"`
}

// QuoteLoanRequest asks for the live receivable position of a loan.
type QuoteLoanRequest struct {
	TenantID string    `json:"tenant_id"`
	LoanID   string    `json:"loan_id"`
	AsOf     time.Time `json:"as_of"`
}

// ComputeScoreRequest recomputes a borrower's credit score from their loans.
type ComputeScoreRequest struct {
	TenantID   string    `json:"tenant_id"`
	BorrowerID string    `json:"borrower_id"`
	AsOf       time.Time `json:"as_of"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	TenantID string `json:"tenant_id"`
	LoanID   string `json:"loan_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// InstallmentResponse is the external representation of one installment.
type InstallmentResponse struct {
	Sequence         int             `json:"sequence"`
	DueDate          time.Time       `json:"due_date"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	PaidAmount       decimal.Decimal `json:"paid_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Penalty          decimal.Decimal `json:"penalty"`
	LateInterest     decimal.Decimal `json:"late_interest"`
	State            string          `json:"state"`
	Paid             bool            `json:"paid"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
}

// PaymentResponse is the external representation of one ledger row.
type PaymentResponse struct {
	ID              string            `json:"id"`
	LoanID          string            `json:"loan_id"`
	InstallmentSeq  *int              `json:"installment_seq,omitempty"`
	Type            string            `json:"type"`
	Amount          decimal.Decimal   `json:"amount"`
	InterestPortion decimal.Decimal   `json:"interest_portion"`
	PaymentDate     time.Time         `json:"payment_date"`
	RecordedBy      string            `json:"recorded_by"`
	ReversedAt      *time.Time        `json:"reversed_at,omitempty"`
	ReversedBy      *string           `json:"reversed_by,omitempty"`
	ReversalReason  *string           `json:"reversal_reason,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	ID                string                `json:"id"`
	TenantID          string                `json:"tenant_id"`
	BorrowerID        string                `json:"borrower_id"`
	Principal         decimal.Decimal       `json:"principal"`
	NominalRate       decimal.Decimal       `json:"nominal_rate"`
	InterestMode      string                `json:"interest_mode"`
	InstallmentCount  int                   `json:"installment_count"`
	Cadence           string                `json:"cadence"`
	ContractDate      time.Time             `json:"contract_date"`
	GraceDays         int                   `json:"grace_days"`
	TotalPayable      decimal.Decimal       `json:"total_payable"`
	InstallmentAmount decimal.Decimal       `json:"installment_amount"`
	Outstanding       decimal.Decimal       `json:"outstanding"`
	Status            string                `json:"status"`
	Installments      []InstallmentResponse `json:"installments,omitempty"`
	Payments          []PaymentResponse     `json:"payments,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// SimulationResponse is the result of a contract simulation.
type SimulationResponse struct {
	Total          decimal.Decimal       `json:"total"`
	PerInstallment decimal.Decimal       `json:"per_installment"`
	Rate           decimal.Decimal       `json:"rate"`
	Installments   []InstallmentResponse `json:"installments"`
}

// SolveRateResponse is the result of a rate inversion.
type SolveRateResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

// QuoteInstallmentResponse is one line of a receivable quote.
type QuoteInstallmentResponse struct {
	Sequence       int             `json:"sequence"`
	DueDate        time.Time       `json:"due_date"`
	State          string          `json:"state"`
	DaysLate       int             `json:"days_late"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	AccruedPenalty decimal.Decimal `json:"accrued_penalty"`
	AccruedLateInt decimal.Decimal `json:"accrued_late_interest"`
	AmountDue      decimal.Decimal `json:"amount_due"`
}

// QuoteResponse is the live receivable position of a loan.
type QuoteResponse struct {
	LoanID          string                     `json:"loan_id"`
	AsOf            time.Time                  `json:"as_of"`
	TotalReceivable decimal.Decimal            `json:"total_receivable"`
	TotalPaid       decimal.Decimal            `json:"total_paid"`
	Outstanding     decimal.Decimal            `json:"outstanding"`
	OverdueCount    int                        `json:"overdue_count"`
	DaysLate        int                        `json:"days_late"`
	NextDueDate     *time.Time                 `json:"next_due_date,omitempty"`
	NextDueAmount   decimal.Decimal            `json:"next_due_amount"`
	Installments    []QuoteInstallmentResponse `json:"installments"`
}

// ScoreResponse is the external representation of a credit score snapshot.
type ScoreResponse struct {
	BorrowerID  string    `json:"borrower_id"`
	Score       int       `json:"score"`
	Band        string    `json:"band"`
	Evaluated   int       `json:"evaluated"`
	OnTimePaid  int       `json:"on_time_paid"`
	LatePaid    int       `json:"late_paid"`
	LateUnpaid  int       `json:"late_unpaid"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// PenaltyRunResponse reports the charges applied by a penalty assessment.
type PenaltyRunResponse struct {
	LoanID  string                  `json:"loan_id"`
	AsOf    time.Time               `json:"as_of"`
	Charges []InstallmentChargeView `json:"charges"`
}

// InstallmentChargeView is one assessed charge in a penalty run.
type InstallmentChargeView struct {
	Sequence     int             `json:"sequence"`
	DaysLate     int             `json:"days_late"`
	Penalty      decimal.Decimal `json:"penalty"`
	LateInterest decimal.Decimal `json:"late_interest"`
}
