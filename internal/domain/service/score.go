package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/crediario/loan-engine/internal/domain/model"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

// ScoreParams are the weights of the score formula. They are kept
// configurable per book; the defaults are the ones the business runs on.
type ScoreParams struct {
	Base            int
	OnTimeWeight    int
	LatePaidPenalty int
	LateOpenPenalty int
}

// DefaultScoreParams returns the standard weights.
func DefaultScoreParams() ScoreParams {
	return ScoreParams{
		Base:            350,
		OnTimeWeight:    650,
		LatePaidPenalty: 15,
		LateOpenPenalty: 30,
	}
}

// ScoreEngine derives a borrower's credit standing from settled installment
// history.
type ScoreEngine struct {
	params ScoreParams
}

// NewScoreEngine creates an engine with the given weights.
func NewScoreEngine(params ScoreParams) *ScoreEngine {
	return &ScoreEngine{params: params}
}

// Evaluate classifies every installment due at or before asOf across the
// borrower's loans and produces a score snapshot. With nothing evaluated the
// on-time ratio defaults to 1, landing new borrowers at the top of the range.
func (e *ScoreEngine) Evaluate(
	tenantID, borrowerID string,
	loans []model.Loan,
	asOf time.Time,
) (model.ScoreSnapshot, error) {
	if borrowerID == "" {
		return model.ScoreSnapshot{}, errors.New("borrower ID is required")
	}

	var evaluated, onTime, latePaid, lateUnpaid int
	for _, loan := range loans {
		// A voided contract says nothing about payment behavior.
		if loan.Status().Equal(valueobject.LoanStatusCanceled) {
			continue
		}
		for _, inst := range loan.Installments() {
			if inst.DueDate.After(asOf) {
				continue
			}
			evaluated++
			switch {
			case inst.Paid && inst.PaidAt != nil && !inst.PaidAt.After(inst.DueDate):
				onTime++
			case inst.Paid:
				latePaid++
			default:
				lateUnpaid++
			}
		}
	}

	ratio := decimal.NewFromInt(1)
	if evaluated > 0 {
		ratio = decimal.NewFromInt(int64(onTime)).Div(decimal.NewFromInt(int64(evaluated)))
	}

	raw := decimal.NewFromInt(int64(e.params.Base)).
		Add(ratio.Mul(decimal.NewFromInt(int64(e.params.OnTimeWeight)))).
		Sub(decimal.NewFromInt(int64(e.params.LatePaidPenalty * latePaid))).
		Sub(decimal.NewFromInt(int64(e.params.LateOpenPenalty * lateUnpaid)))

	score := int(raw.Round(0).IntPart())
	if score < 0 {
		score = 0
	}
	if score > 1000 {
		score = 1000
	}

	return model.ScoreSnapshot{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		BorrowerID:  borrowerID,
		Score:       score,
		Band:        valueobject.BandForScore(score),
		Evaluated:   evaluated,
		OnTimePaid:  onTime,
		LatePaid:    latePaid,
		LateUnpaid:  lateUnpaid,
		EvaluatedAt: asOf,
	}, nil
}
