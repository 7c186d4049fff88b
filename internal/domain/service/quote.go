package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crediario/loan-engine/internal/domain/model"
	"github.com/crediario/loan-engine/pkg/dates"
)

// InstallmentQuote is the as-of view of one installment, including charges
// computed on the fly that have not been persisted.
type InstallmentQuote struct {
	Sequence        int
	DueDate         time.Time
	State           string
	DaysLate        int
	BaseAmount      decimal.Decimal
	PaidAmount      decimal.Decimal
	AccruedPenalty  decimal.Decimal
	AccruedLateInt  decimal.Decimal
	AmountDue       decimal.Decimal
}

// LoanQuote is every derived figure of a loan at one evaluation date. All
// read-side consumers use it instead of re-deriving totals independently.
type LoanQuote struct {
	LoanID          string
	AsOf            time.Time
	TotalReceivable decimal.Decimal
	TotalPaid       decimal.Decimal
	Outstanding     decimal.Decimal
	OverdueCount    int
	DaysLate        int
	NextDueDate     *time.Time
	NextDueAmount   decimal.Decimal
	Installments    []InstallmentQuote
}

// Quote derives all figures from (loan, installments, asOf) in one pure pass.
// Persisted charges are taken as-is; late interest beyond what has been
// applied is added on the fly and never written back.
func Quote(loan model.Loan, asOf time.Time) LoanQuote {
	q := LoanQuote{
		LoanID: loan.ID(),
		AsOf:   dates.Day(asOf),
	}

	totalReceivable := decimal.Zero
	totalPaid := decimal.Zero
	outstanding := decimal.Zero

	for _, inst := range loan.Installments() {
		iq := InstallmentQuote{
			Sequence:       inst.Sequence,
			DueDate:        inst.DueDate,
			State:          inst.State().String(),
			BaseAmount:     inst.BaseAmount.Round(2),
			PaidAmount:     inst.PaidAmount.Round(2),
			AccruedPenalty: inst.Penalty.Round(2),
		}

		lateInt := inst.LateInterest
		if inst.OverdueAt(q.AsOf) {
			iq.DaysLate = dates.DaysBetween(inst.DueDate, q.AsOf)
			q.OverdueCount++
			if iq.DaysLate > q.DaysLate {
				q.DaysLate = iq.DaysLate
			}
			// Show the larger of the persisted charge and the live accrual.
			live := LateInterestFor(inst, loan.Terms().LateInterest, iq.DaysLate)
			lateInt = decimal.Max(lateInt, live)
		}
		iq.AccruedLateInt = lateInt.Round(2)

		due := inst.BaseAmount.Add(inst.Penalty).Add(lateInt).Sub(inst.PaidAmount)
		if due.IsNegative() || inst.Paid {
			due = decimal.Zero
		}
		iq.AmountDue = due.Round(2)

		totalReceivable = totalReceivable.Add(inst.BaseAmount).Add(inst.Penalty).Add(lateInt)
		totalPaid = totalPaid.Add(inst.PaidAmount)
		outstanding = outstanding.Add(due)

		if !inst.Paid && q.NextDueDate == nil {
			d := inst.DueDate
			q.NextDueDate = &d
			q.NextDueAmount = iq.AmountDue
		}

		q.Installments = append(q.Installments, iq)
	}

	q.TotalReceivable = totalReceivable.Round(2)
	q.TotalPaid = totalPaid.Round(2)
	q.Outstanding = outstanding.Round(2)
	return q
}
