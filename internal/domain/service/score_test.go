package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crediario/loan-engine/internal/domain/model"
	"github.com/crediario/loan-engine/internal/domain/service"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

// historyLoan builds a loan whose installments encode a payment history:
// onTime installments paid at their due date, latePaid paid after it, and
// lateOpen still unpaid past due. All due dates fall before asOf.
func historyLoan(t *testing.T, onTime, latePaid, lateOpen int, asOf time.Time) model.Loan {
	t.Helper()

	var installments []model.Installment
	seq := 0
	add := func(n int, paid bool, daysAfterDue int) {
		for i := 0; i < n; i++ {
			seq++
			due := asOf.AddDate(0, 0, -30-seq)
			inst := model.Installment{
				Sequence:         seq,
				DueDate:          due,
				BaseAmount:       decimal.NewFromInt(100),
				RemainingBalance: decimal.NewFromInt(100),
			}
			if paid {
				paidAt := due.AddDate(0, 0, daysAfterDue)
				inst.Paid = true
				inst.PaidAt = &paidAt
				inst.PaidAmount = inst.BaseAmount
				inst.RemainingBalance = decimal.Zero
			}
			installments = append(installments, inst)
		}
	}
	add(onTime, true, 0)
	add(latePaid, true, 10)
	add(lateOpen, false, 0)

	return model.ReconstructLoan(
		"loan-001", "tenant-001", "borrower-001",
		decimal.NewFromInt(1000), decimal.NewFromFloat(0.02),
		valueobject.InterestModePerInstallment, valueobject.CadenceMonthly,
		asOf.AddDate(-1, 0, 0), 0,
		valueobject.ContractTerms{},
		decimal.NewFromInt(1100), decimal.NewFromInt(110),
		valueobject.LoanStatusActive,
		installments, nil,
		1, asOf.AddDate(-1, 0, 0), asOf,
	)
}

func TestEvaluate(t *testing.T) {
	engine := service.NewScoreEngine(service.DefaultScoreParams())
	asOf := dateOf(2026, 8, 31)

	t.Run("mixed history", func(t *testing.T) {
		// 10 evaluated, 8 on time, 1 paid late, 1 still open:
		// 350 + 650*0.8 - 15 - 30 = 825, band B.
		loan := historyLoan(t, 8, 1, 1, asOf)
		snap, err := engine.Evaluate("tenant-001", "borrower-001", []model.Loan{loan}, asOf)
		require.NoError(t, err)

		assert.Equal(t, 825, snap.Score)
		assert.Equal(t, valueobject.ScoreBandB, snap.Band)
		assert.Equal(t, 10, snap.Evaluated)
		assert.Equal(t, 8, snap.OnTimePaid)
		assert.Equal(t, 1, snap.LatePaid)
		assert.Equal(t, 1, snap.LateUnpaid)
		assert.NotEmpty(t, snap.ID)
	})

	t.Run("empty history lands at the top", func(t *testing.T) {
		snap, err := engine.Evaluate("tenant-001", "borrower-001", nil, asOf)
		require.NoError(t, err)
		assert.Equal(t, 1000, snap.Score)
		assert.Equal(t, valueobject.ScoreBandA, snap.Band)
		assert.Equal(t, 0, snap.Evaluated)
	})

	t.Run("perfect history scores 1000", func(t *testing.T) {
		loan := historyLoan(t, 12, 0, 0, asOf)
		snap, err := engine.Evaluate("tenant-001", "borrower-001", []model.Loan{loan}, asOf)
		require.NoError(t, err)
		assert.Equal(t, 1000, snap.Score)
		assert.Equal(t, valueobject.ScoreBandA, snap.Band)
	})

	t.Run("heavy delinquency clamps at zero", func(t *testing.T) {
		loan := historyLoan(t, 0, 0, 20, asOf)
		snap, err := engine.Evaluate("tenant-001", "borrower-001", []model.Loan{loan}, asOf)
		require.NoError(t, err)
		assert.Equal(t, 0, snap.Score)
		assert.Equal(t, valueobject.ScoreBandD, snap.Band)
	})

	t.Run("future installments are not evaluated", func(t *testing.T) {
		loan := historyLoan(t, 2, 0, 0, asOf)
		future := model.ReconstructLoan(
			"loan-002", "tenant-001", "borrower-001",
			decimal.NewFromInt(500), decimal.NewFromFloat(0.02),
			valueobject.InterestModePerInstallment, valueobject.CadenceMonthly,
			asOf, 0,
			valueobject.ContractTerms{},
			decimal.NewFromInt(510), decimal.NewFromInt(510),
			valueobject.LoanStatusActive,
			[]model.Installment{{
				Sequence:         1,
				DueDate:          asOf.AddDate(0, 1, 0),
				BaseAmount:       decimal.NewFromInt(510),
				RemainingBalance: decimal.NewFromInt(510),
			}},
			nil, 1, asOf, asOf,
		)
		snap, err := engine.Evaluate("tenant-001", "borrower-001", []model.Loan{loan, future}, asOf)
		require.NoError(t, err)
		assert.Equal(t, 2, snap.Evaluated)
		assert.Equal(t, 1000, snap.Score)
	})

	t.Run("canceled loans do not count against the borrower", func(t *testing.T) {
		clean := historyLoan(t, 2, 0, 0, asOf)
		canceled := model.ReconstructLoan(
			"loan-003", "tenant-001", "borrower-001",
			decimal.NewFromInt(500), decimal.NewFromFloat(0.02),
			valueobject.InterestModePerInstallment, valueobject.CadenceMonthly,
			asOf.AddDate(0, -6, 0), 0,
			valueobject.ContractTerms{},
			decimal.NewFromInt(510), decimal.NewFromInt(510),
			valueobject.LoanStatusCanceled,
			[]model.Installment{{
				Sequence:         1,
				DueDate:          asOf.AddDate(0, -3, 0),
				BaseAmount:       decimal.NewFromInt(510),
				RemainingBalance: decimal.NewFromInt(510),
			}},
			nil, 1, asOf.AddDate(0, -6, 0), asOf,
		)
		snap, err := engine.Evaluate("tenant-001", "borrower-001", []model.Loan{clean, canceled}, asOf)
		require.NoError(t, err)
		assert.Equal(t, 2, snap.Evaluated)
		assert.Equal(t, 0, snap.LateUnpaid)
		assert.Equal(t, 1000, snap.Score)
	})

	t.Run("missing borrower rejected", func(t *testing.T) {
		_, err := engine.Evaluate("tenant-001", "", nil, asOf)
		assert.Error(t, err)
	})
}

func TestBandForScore(t *testing.T) {
	cases := []struct {
		score int
		want  valueobject.ScoreBand
	}{
		{1000, valueobject.ScoreBandA},
		{900, valueobject.ScoreBandA},
		{899, valueobject.ScoreBandB},
		{750, valueobject.ScoreBandB},
		{749, valueobject.ScoreBandC},
		{600, valueobject.ScoreBandC},
		{599, valueobject.ScoreBandD},
		{0, valueobject.ScoreBandD},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, valueobject.BandForScore(tc.score), "score %d", tc.score)
	}
}
