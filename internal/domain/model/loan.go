package model

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/crediario/loan-engine/internal/domain/event"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Loan aggregate root (installment ledger)
// ---------------------------------------------------------------------------

// Sentinel errors of the ledger state machine.
var (
	ErrNotAuthorized       = errors.New("reversing this payment type requires an elevated role")
	ErrAlreadyReversed     = errors.New("payment is already reversed")
	ErrNothingToSettle     = errors.New("loan has no outstanding balance")
	ErrInstallmentPaid     = errors.New("installment is already paid")
	ErrLoanNotMutable      = errors.New("loan does not accept ledger operations in its current status")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrInstallmentNotFound = errors.New("installment not found")
)

// InstallmentCharge is one assessed overdue charge, produced by the penalty
// engine and persisted through ApplyCharges.
type InstallmentCharge struct {
	Sequence     int
	DaysLate     int
	Penalty      decimal.Decimal
	LateInterest decimal.Decimal
}

// Loan is an immutable aggregate. Mutations return a new copy carrying the
// domain events of the transition. Installment balances are never adjusted in
// place: every ledger operation appends payment rows and rebuilds balances
// from the surviving non-reversed history.
type Loan struct {
	id                string
	tenantID          string
	borrowerID        string
	principal         decimal.Decimal
	nominalRate       decimal.Decimal
	interestMode      valueobject.InterestMode
	installmentCount  int
	cadence           valueobject.Cadence
	contractDate      time.Time
	graceDays         int
	terms             valueobject.ContractTerms
	totalPayable      decimal.Decimal // contract snapshot; live figures derive from installments
	installmentAmount decimal.Decimal
	status            valueobject.LoanStatus
	installments      []Installment
	payments          []Payment
	version           int
	createdAt         time.Time
	updatedAt         time.Time
	domainEvents      []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoan creates a loan from validated terms and a pre-generated schedule.
// The loan starts ACTIVE.
func NewLoan(
	tenantID, borrowerID string,
	principal, nominalRate decimal.Decimal,
	interestMode valueobject.InterestMode,
	cadence valueobject.Cadence,
	contractDate time.Time,
	graceDays int,
	terms valueobject.ContractTerms,
	totalPayable, installmentAmount decimal.Decimal,
	installments []Installment,
	now time.Time,
) (Loan, error) {
	if tenantID == "" {
		return Loan{}, errors.New("tenant ID is required")
	}
	if borrowerID == "" {
		return Loan{}, errors.New("borrower ID is required")
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return Loan{}, errors.New("principal must be positive")
	}
	if len(installments) == 0 {
		return Loan{}, errors.New("schedule must contain at least one installment")
	}
	if contractDate.IsZero() {
		return Loan{}, errors.New("contract date is required")
	}
	if err := terms.Validate(cadence); err != nil {
		return Loan{}, err
	}

	id := uuid.New().String()
	sched := make([]Installment, len(installments))
	copy(sched, installments)

	loan := Loan{
		id:                id,
		tenantID:          tenantID,
		borrowerID:        borrowerID,
		principal:         principal,
		nominalRate:       nominalRate,
		interestMode:      interestMode,
		installmentCount:  len(sched),
		cadence:           cadence,
		contractDate:      contractDate,
		graceDays:         graceDays,
		terms:             terms,
		totalPayable:      totalPayable,
		installmentAmount: installmentAmount,
		status:            valueobject.LoanStatusActive,
		installments:      sched,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}

	loan.domainEvents = append(loan.domainEvents, event.NewLoanCreated(
		id, tenantID, borrowerID,
		principal, totalPayable,
		len(sched), cadence.String(), interestMode.String(),
		sched[0].DueDate,
	))

	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, tenantID, borrowerID string,
	principal, nominalRate decimal.Decimal,
	interestMode valueobject.InterestMode,
	cadence valueobject.Cadence,
	contractDate time.Time,
	graceDays int,
	terms valueobject.ContractTerms,
	totalPayable, installmentAmount decimal.Decimal,
	status valueobject.LoanStatus,
	installments []Installment,
	payments []Payment,
	version int,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:                id,
		tenantID:          tenantID,
		borrowerID:        borrowerID,
		principal:         principal,
		nominalRate:       nominalRate,
		interestMode:      interestMode,
		cadence:           cadence,
		contractDate:      contractDate,
		graceDays:         graceDays,
		terms:             terms,
		totalPayable:      totalPayable,
		installmentAmount: installmentAmount,
		installmentCount:  len(installments),
		status:            status,
		installments:      installments,
		payments:          payments,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// ---------------------------------------------------------------------------
// Ledger operations
// ---------------------------------------------------------------------------

// RecordFullPayment pays an installment in full. The amount defaults to the
// installment's remaining balance (base plus persisted charges minus what was
// already paid) and may be overridden with a lower collected amount.
func (l Loan) RecordFullPayment(
	sequence int,
	override *decimal.Decimal,
	paymentDate time.Time,
	actor valueobject.Actor,
	now time.Time,
) (Loan, Payment, error) {
	if err := l.mutable(); err != nil {
		return l, Payment{}, err
	}
	if paymentDate.IsZero() {
		return l, Payment{}, errors.New("payment date is required")
	}
	inst, err := l.installment(sequence)
	if err != nil {
		return l, Payment{}, err
	}
	if inst.Paid {
		return l, Payment{}, ErrInstallmentPaid
	}

	amount := inst.RemainingBalance
	if override != nil {
		amount = *override
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return l, Payment{}, errors.New("payment amount must be positive")
	}
	if amount.GreaterThan(inst.RemainingBalance) {
		return l, Payment{}, fmt.Errorf("payment amount %s exceeds remaining balance %s",
			amount.StringFixed(2), inst.RemainingBalance.StringFixed(2))
	}

	charges := inst.Penalty.Add(inst.LateInterest)
	p := l.newPayment(valueobject.PaymentTypeFull, &sequence, amount,
		decimal.Min(amount, charges), paymentDate, actor, nil, now)

	next := l.withPayment(p, now)
	next.domainEvents = append(next.domainEvents, event.NewPaymentApplied(
		l.id, l.tenantID, p.Type.String(), p.Amount, p.InstallmentSeq, next.Outstanding(),
	))
	next.noteSettled(l.status)
	return next, p, nil
}

// RecordPartialPayment applies a partial or advance payment against one
// installment. An advance must be strictly below the installment base and
// never moves the due date; a plain partial may be rescheduled explicitly.
func (l Loan) RecordPartialPayment(
	sequence int,
	amount decimal.Decimal,
	advance bool,
	rescheduleTo *time.Time,
	paymentDate time.Time,
	actor valueobject.Actor,
	now time.Time,
) (Loan, Payment, error) {
	if err := l.mutable(); err != nil {
		return l, Payment{}, err
	}
	if paymentDate.IsZero() {
		return l, Payment{}, errors.New("payment date is required")
	}
	inst, err := l.installment(sequence)
	if err != nil {
		return l, Payment{}, err
	}
	if inst.Paid {
		return l, Payment{}, ErrInstallmentPaid
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return l, Payment{}, errors.New("payment amount must be positive")
	}
	if amount.GreaterThan(inst.RemainingBalance) {
		return l, Payment{}, fmt.Errorf("partial amount %s exceeds remaining balance %s",
			amount.StringFixed(2), inst.RemainingBalance.StringFixed(2))
	}
	if advance && amount.GreaterThanOrEqual(inst.BaseAmount) {
		return l, Payment{}, fmt.Errorf("advance amount %s must be below the installment base %s",
			amount.StringFixed(2), inst.BaseAmount.StringFixed(2))
	}

	pType := valueobject.PaymentTypePartial
	var meta map[string]string
	if advance {
		pType = valueobject.PaymentTypeAdvance
	}

	next := l.clone()
	if rescheduleTo != nil && !advance {
		meta = map[string]string{
			"rescheduled_from": inst.DueDate.Format(time.DateOnly),
			"rescheduled_to":   rescheduleTo.Format(time.DateOnly),
		}
		for i := range next.installments {
			if next.installments[i].Sequence == sequence {
				next.installments[i].DueDate = *rescheduleTo
			}
		}
	}

	p := l.newPayment(pType, &sequence, amount, decimal.Zero, paymentDate, actor, meta, now)
	next.payments = append(next.payments, p)
	next.rebuild(now)
	next.domainEvents = append(next.domainEvents, event.NewPaymentApplied(
		l.id, l.tenantID, p.Type.String(), p.Amount, p.InstallmentSeq, next.Outstanding(),
	))
	next.noteSettled(l.status)
	return next, p, nil
}

// RecordInterestOnly records a renegotiation payment with zero principal
// effect and optionally pushes the installment due date forward.
func (l Loan) RecordInterestOnly(
	sequence int,
	amount decimal.Decimal,
	full bool,
	pushDueTo *time.Time,
	paymentDate time.Time,
	actor valueobject.Actor,
	now time.Time,
) (Loan, Payment, error) {
	if err := l.mutable(); err != nil {
		return l, Payment{}, err
	}
	if paymentDate.IsZero() {
		return l, Payment{}, errors.New("payment date is required")
	}
	inst, err := l.installment(sequence)
	if err != nil {
		return l, Payment{}, err
	}
	if inst.Paid {
		return l, Payment{}, ErrInstallmentPaid
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return l, Payment{}, errors.New("payment amount must be positive")
	}

	pType := valueobject.PaymentTypeInterestOnlyPartial
	if full {
		pType = valueobject.PaymentTypeInterestOnly
	}

	next := l.clone()
	var meta map[string]string
	if pushDueTo != nil {
		meta = map[string]string{
			"rescheduled_from": inst.DueDate.Format(time.DateOnly),
			"rescheduled_to":   pushDueTo.Format(time.DateOnly),
		}
		for i := range next.installments {
			if next.installments[i].Sequence == sequence {
				next.installments[i].DueDate = *pushDueTo
			}
		}
	}

	p := l.newPayment(pType, &sequence, amount, amount, paymentDate, actor, meta, now)
	next.payments = append(next.payments, p)
	next.rebuild(now)
	next.domainEvents = append(next.domainEvents, event.NewPaymentApplied(
		l.id, l.tenantID, p.Type.String(), p.Amount, p.InstallmentSeq, next.Outstanding(),
	))
	return next, p, nil
}

// Settle clears every open installment of the loan in one event. One payment
// row is written per installment so that reversal-by-recompute needs no
// special casing; the rows share a batch id.
func (l Loan) Settle(
	paymentDate time.Time,
	actor valueobject.Actor,
	now time.Time,
) (Loan, []Payment, error) {
	if err := l.mutable(); err != nil {
		return l, nil, err
	}
	if paymentDate.IsZero() {
		return l, nil, errors.New("payment date is required")
	}
	if !l.Outstanding().IsPositive() {
		return l, nil, ErrNothingToSettle
	}

	batch := uuid.New().String()
	total := decimal.Zero
	next := l.clone()
	var rows []Payment
	for _, inst := range l.installments {
		if inst.Paid || !inst.RemainingBalance.IsPositive() {
			continue
		}
		seq := inst.Sequence
		charges := inst.Penalty.Add(inst.LateInterest)
		p := l.newPayment(valueobject.PaymentTypeSettlement, &seq, inst.RemainingBalance,
			decimal.Min(inst.RemainingBalance, charges), paymentDate, actor,
			map[string]string{"settlement_batch": batch}, now)
		rows = append(rows, p)
		next.payments = append(next.payments, p)
		total = total.Add(p.Amount)
	}

	next.rebuild(now)
	next.domainEvents = append(next.domainEvents, event.NewPaymentApplied(
		l.id, l.tenantID, valueobject.PaymentTypeSettlement.String(), total, nil, next.Outstanding(),
	))
	next.noteSettled(l.status)
	return next, rows, nil
}

// ApplyDiscount reduces balances across the selected installments in
// ascending sequence order, first-fit until the discount is exhausted. No
// cash moves; the rows exist so the reduction stays auditable and reversible.
func (l Loan) ApplyDiscount(
	amount decimal.Decimal,
	sequences []int,
	actor valueobject.Actor,
	now time.Time,
) (Loan, []Payment, error) {
	if err := l.mutable(); err != nil {
		return l, nil, err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return l, nil, errors.New("discount amount must be positive")
	}
	if len(sequences) == 0 {
		return l, nil, errors.New("discount requires at least one installment")
	}
	if !l.Outstanding().IsPositive() {
		return l, nil, ErrNothingToSettle
	}

	ordered := make([]int, len(sequences))
	copy(ordered, sequences)
	sort.Ints(ordered)

	batch := uuid.New().String()
	remaining := amount
	next := l.clone()
	var rows []Payment
	for i, seq := range ordered {
		if !remaining.IsPositive() {
			break
		}
		// A duplicated sequence would allocate against the same balance twice.
		if i > 0 && seq == ordered[i-1] {
			continue
		}
		inst, err := l.installment(seq)
		if err != nil {
			return l, nil, err
		}
		if inst.Paid || !inst.RemainingBalance.IsPositive() {
			continue
		}
		portion := decimal.Min(remaining, inst.RemainingBalance)
		target := seq
		p := l.newPayment(valueobject.PaymentTypeDiscount, &target, portion,
			decimal.Zero, now, actor, map[string]string{"discount_batch": batch}, now)
		rows = append(rows, p)
		next.payments = append(next.payments, p)
		remaining = remaining.Sub(portion)
	}
	if len(rows) == 0 {
		return l, nil, errors.New("selected installments have no outstanding balance")
	}

	next.rebuild(now)
	next.domainEvents = append(next.domainEvents, event.NewPaymentApplied(
		l.id, l.tenantID, valueobject.PaymentTypeDiscount.String(),
		amount.Sub(remaining), nil, next.Outstanding(),
	))
	next.noteSettled(l.status)
	return next, rows, nil
}

// ApplyCharges persists assessed penalties and late interest on the targeted
// installments and recomputes their balances.
func (l Loan) ApplyCharges(charges []InstallmentCharge, asOf, now time.Time) (Loan, error) {
	if err := l.mutable(); err != nil {
		return l, err
	}
	if len(charges) == 0 {
		return l, nil
	}

	next := l.clone()
	var seqs []int
	totalPenalty, totalLate := decimal.Zero, decimal.Zero
	for _, c := range charges {
		found := false
		for i := range next.installments {
			if next.installments[i].Sequence != c.Sequence {
				continue
			}
			appliedAt := asOf
			next.installments[i].Penalty = c.Penalty
			next.installments[i].LateInterest = c.LateInterest
			next.installments[i].PenaltyAppliedAt = &appliedAt
			found = true
			break
		}
		if !found {
			return l, ErrInstallmentNotFound
		}
		seqs = append(seqs, c.Sequence)
		totalPenalty = totalPenalty.Add(c.Penalty)
		totalLate = totalLate.Add(c.LateInterest)
	}

	next.rebuild(now)
	next.domainEvents = append(next.domainEvents, event.NewPenaltyApplied(
		l.id, l.tenantID, seqs, totalPenalty, totalLate,
	))
	return next, nil
}

// ReversePayment marks a payment reversed and rebuilds all balances from the
// surviving history. The row itself is never deleted. Reversing an advance
// requires the supervisor role.
func (l Loan) ReversePayment(
	paymentID string,
	actor valueobject.Actor,
	reason string,
	now time.Time,
) (Loan, error) {
	idx := -1
	for i, p := range l.payments {
		if p.ID == paymentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return l, ErrPaymentNotFound
	}
	target := l.payments[idx]
	if target.Reversed() {
		return l, ErrAlreadyReversed
	}
	if target.Type.RequiresElevatedRole() && !actor.Role.Elevated() {
		return l, ErrNotAuthorized
	}

	next := l.clone()
	reversedAt := now
	by := actor.ID
	r := reason
	next.payments[idx].ReversedAt = &reversedAt
	next.payments[idx].ReversedBy = &by
	next.payments[idx].ReversalReason = &r

	next.rebuild(now)
	next.domainEvents = append(next.domainEvents, event.NewPaymentReversed(
		l.id, l.tenantID, target.ID, target.Type.String(), target.Amount, reason, next.Outstanding(),
	))
	return next, nil
}

// Cancel voids the contract. Allowed only while active.
func (l Loan) Cancel(now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l.clone()
	next.status = valueobject.LoanStatusCanceled
	next.updatedAt = now
	return next, nil
}

// MarkAdvanced flags the contract as rolled into a renegotiated one.
func (l Loan) MarkAdvanced(now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l.clone()
	next.status = valueobject.LoanStatusAdvanced
	next.updatedAt = now
	return next, nil
}

// ---------------------------------------------------------------------------
// Balance rebuild
// ---------------------------------------------------------------------------

// rebuild recomputes every installment's accumulated-paid figure, remaining
// balance and paid flag from the non-reversed payment history, then derives
// the loan status. Running it twice over the same history is a no-op, which
// is what keeps repeated reversals correct.
func (l *Loan) rebuild(now time.Time) {
	allPaid := len(l.installments) > 0
	for i := range l.installments {
		inst := &l.installments[i]

		paidSum := decimal.Zero
		var fullRowDate *time.Time
		var lastContribution *time.Time
		for _, p := range l.payments {
			if p.InstallmentSeq == nil || *p.InstallmentSeq != inst.Sequence {
				continue
			}
			if !p.CountsTowardPrincipal() {
				continue
			}
			paidSum = paidSum.Add(p.Amount)
			d := p.PaymentDate
			if lastContribution == nil || d.After(*lastContribution) {
				lastContribution = &d
			}
			if p.Type.Equal(valueobject.PaymentTypeFull) || p.Type.Equal(valueobject.PaymentTypeSettlement) {
				if fullRowDate == nil || d.After(*fullRowDate) {
					fullRowDate = &d
				}
			}
		}

		inst.PaidAmount = paidSum
		owed := inst.Owed()
		remaining := owed.Sub(paidSum)

		switch {
		case fullRowDate != nil:
			// A surviving full/settlement row closes the installment even
			// when its collected amount was negotiated below the balance.
			inst.RemainingBalance = decimal.Zero
			inst.Paid = true
			inst.PaidAt = fullRowDate
		case remaining.LessThanOrEqual(decimal.Zero) && owed.IsPositive():
			inst.RemainingBalance = decimal.Zero
			inst.Paid = true
			inst.PaidAt = lastContribution
		default:
			if remaining.IsNegative() {
				remaining = decimal.Zero
			}
			inst.RemainingBalance = remaining
			inst.Paid = false
			inst.PaidAt = nil
		}

		if !inst.Paid {
			allPaid = false
		}
	}

	// CANCELED and ADVANCED are manual states; the ledger never leaves them.
	if l.status.Equal(valueobject.LoanStatusActive) || l.status.Equal(valueobject.LoanStatusSettled) {
		if allPaid {
			l.status = valueobject.LoanStatusSettled
		} else {
			l.status = valueobject.LoanStatusActive
		}
	}
	l.updatedAt = now
}

// noteSettled appends LoanSettled when the rebuild just moved the loan into
// the settled status.
func (l *Loan) noteSettled(prev valueobject.LoanStatus) {
	if l.status.Equal(valueobject.LoanStatusSettled) && !prev.Equal(valueobject.LoanStatusSettled) {
		l.domainEvents = append(l.domainEvents, event.NewLoanSettled(l.id, l.tenantID))
	}
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (l Loan) mutable() error {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return ErrLoanNotMutable
	}
	return nil
}

func (l Loan) installment(sequence int) (Installment, error) {
	for _, inst := range l.installments {
		if inst.Sequence == sequence {
			return inst, nil
		}
	}
	return Installment{}, ErrInstallmentNotFound
}

func (l Loan) newPayment(
	pType valueobject.PaymentType,
	sequence *int,
	amount, interestPortion decimal.Decimal,
	paymentDate time.Time,
	actor valueobject.Actor,
	meta map[string]string,
	now time.Time,
) Payment {
	var seq *int
	if sequence != nil {
		s := *sequence
		seq = &s
	}
	return Payment{
		ID:              uuid.New().String(),
		LoanID:          l.id,
		InstallmentSeq:  seq,
		Type:            pType,
		Amount:          amount.Round(2),
		InterestPortion: interestPortion.Round(2),
		PaymentDate:     paymentDate,
		RecordedBy:      actor.ID,
		CreatedAt:       now,
		Metadata:        meta,
	}
}

func (l Loan) withPayment(p Payment, now time.Time) Loan {
	next := l.clone()
	next.payments = append(next.payments, p)
	next.rebuild(now)
	return next
}

func (l Loan) clone() Loan {
	next := l
	next.installments = make([]Installment, len(l.installments))
	copy(next.installments, l.installments)
	next.payments = make([]Payment, len(l.payments))
	copy(next.payments, l.payments)
	next.domainEvents = copyEvents(l.domainEvents)
	return next
}

func copyEvents(in []event.DomainEvent) []event.DomainEvent {
	if in == nil {
		return nil
	}
	out := make([]event.DomainEvent, len(in))
	copy(out, in)
	return out
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                               { return l.id }
func (l Loan) TenantID() string                         { return l.tenantID }
func (l Loan) BorrowerID() string                       { return l.borrowerID }
func (l Loan) Principal() decimal.Decimal               { return l.principal }
func (l Loan) NominalRate() decimal.Decimal             { return l.nominalRate }
func (l Loan) InterestMode() valueobject.InterestMode   { return l.interestMode }
func (l Loan) InstallmentCount() int                    { return l.installmentCount }
func (l Loan) Cadence() valueobject.Cadence             { return l.cadence }
func (l Loan) ContractDate() time.Time                  { return l.contractDate }
func (l Loan) GraceDays() int                           { return l.graceDays }
func (l Loan) Terms() valueobject.ContractTerms         { return l.terms }
func (l Loan) TotalPayable() decimal.Decimal            { return l.totalPayable }
func (l Loan) InstallmentAmount() decimal.Decimal       { return l.installmentAmount }
func (l Loan) Status() valueobject.LoanStatus           { return l.status }
func (l Loan) Version() int                             { return l.version }
func (l Loan) CreatedAt() time.Time                     { return l.createdAt }
func (l Loan) UpdatedAt() time.Time                     { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent        { return l.domainEvents }

// Outstanding returns the live total receivable: the sum of remaining
// balances across installments, never the contract snapshot.
func (l Loan) Outstanding() decimal.Decimal {
	total := decimal.Zero
	for _, inst := range l.installments {
		total = total.Add(inst.RemainingBalance)
	}
	return total
}

// Installments returns a defensive copy of the schedule.
func (l Loan) Installments() []Installment {
	if l.installments == nil {
		return nil
	}
	out := make([]Installment, len(l.installments))
	copy(out, l.installments)
	return out
}

// Payments returns a defensive copy of the payment ledger.
func (l Loan) Payments() []Payment {
	if l.payments == nil {
		return nil
	}
	out := make([]Payment, len(l.payments))
	copy(out, l.payments)
	return out
}

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}
