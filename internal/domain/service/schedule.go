package service

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crediario/loan-engine/internal/domain/model"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
	"github.com/crediario/loan-engine/pkg/dates"
)

// ScheduleInput is everything the generator needs to lay out due dates.
type ScheduleInput struct {
	// FirstDueDate wins over ContractDate+GraceDays when set.
	FirstDueDate *time.Time
	ContractDate time.Time
	GraceDays    int
	Count        int
	Cadence      valueobject.Cadence
	FixedWeekday *time.Weekday
	Rules        valueobject.CollectionRules
}

// ScheduleGenerator produces installment due dates under a cadence, passing
// every date through the calendar adjuster.
type ScheduleGenerator struct {
	adjuster *CalendarAdjuster
}

// NewScheduleGenerator creates a generator over the given adjuster.
func NewScheduleGenerator(adjuster *CalendarAdjuster) *ScheduleGenerator {
	return &ScheduleGenerator{adjuster: adjuster}
}

// DueDates generates the due date series. The weekday alignment (when
// requested) runs once on the base date, before exclusion; installments after
// the first are computed from that unadjusted base, not from the possibly
// shifted first date, so exclusion shifts never accumulate.
func (g *ScheduleGenerator) DueDates(in ScheduleInput) ([]time.Time, error) {
	if in.Count <= 0 {
		return nil, errors.New("installment count must be positive")
	}
	if in.FixedWeekday != nil && !in.Cadence.SupportsFixedWeekday() {
		return nil, errors.New("fixed weekday requires a weekly or biweekly cadence")
	}

	var base time.Time
	switch {
	case in.FirstDueDate != nil:
		base = dates.Day(*in.FirstDueDate)
	case !in.ContractDate.IsZero():
		base = dates.Day(in.ContractDate).AddDate(0, 0, in.GraceDays)
	default:
		return nil, errors.New("first due date or contract date is required")
	}

	if in.FixedWeekday != nil {
		base = dates.NextWeekday(base, *in.FixedWeekday)
	}

	out := make([]time.Time, 0, in.Count)
	for i := 0; i < in.Count; i++ {
		var due time.Time
		if step := in.Cadence.DayStep(); step > 0 {
			due = base.AddDate(0, 0, step*i)
		} else {
			due = dates.AddMonthsClamped(base, i)
		}
		out = append(out, g.adjuster.NextCollectable(due, in.Rules))
	}
	return out, nil
}

// BuildInstallments lays the computed totals over the due date series. The
// last installment absorbs the rounding remainder so the sum reproduces the
// total exactly.
func BuildInstallments(dueDates []time.Time, total, perInstallment decimal.Decimal) []model.Installment {
	n := len(dueDates)
	out := make([]model.Installment, 0, n)
	allocated := decimal.Zero
	for i, due := range dueDates {
		amount := perInstallment
		if i == n-1 {
			amount = total.Sub(allocated)
		}
		allocated = allocated.Add(amount)
		out = append(out, model.Installment{
			Sequence:         i + 1,
			DueDate:          due,
			BaseAmount:       amount,
			PaidAmount:       decimal.Zero,
			RemainingBalance: amount,
			Penalty:          decimal.Zero,
			LateInterest:     decimal.Zero,
		})
	}
	return out
}
