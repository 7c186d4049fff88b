package service

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

// Bisection bounds for the annuity rate solver. There is no closed form, so
// the per-period rate is searched in [0, 5] (0-500%) against the target
// installment amount.
const (
	solverIterations = 40
	solverRateCeil   = 5.0
)

// LoanFigures are the contract-level totals derived by the calculator.
// Amounts stay unrounded internally; rounding to 2 decimals happens here, at
// the output boundary.
type LoanFigures struct {
	Total          decimal.Decimal
	PerInstallment decimal.Decimal
	Rate           decimal.Decimal
}

// InterestCalculator computes total payable and per-installment amounts under
// the three interest models, and solves the rate back from a manual total.
type InterestCalculator struct{}

// NewInterestCalculator creates the calculator.
func NewInterestCalculator() *InterestCalculator {
	return &InterestCalculator{}
}

// Compute derives the contract totals from principal, rate and count.
func (c *InterestCalculator) Compute(
	mode valueobject.InterestMode,
	principal, rate decimal.Decimal,
	count int,
) (LoanFigures, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return LoanFigures{}, errors.New("principal must be positive")
	}
	if count <= 0 {
		return LoanFigures{}, errors.New("installment count must be positive")
	}
	if rate.IsNegative() {
		return LoanFigures{}, errors.New("rate must not be negative")
	}

	var total, per decimal.Decimal
	switch mode {
	case valueobject.InterestModePerInstallment:
		// total = P * (1 + r*N)
		total = principal.Mul(decimal.NewFromInt(1).Add(rate.Mul(decimal.NewFromInt(int64(count)))))
		per = total.Div(decimal.NewFromInt(int64(count)))
	case valueobject.InterestModeFixedTotal:
		// total = P * (1 + r)
		total = principal.Mul(decimal.NewFromInt(1).Add(rate))
		per = total.Div(decimal.NewFromInt(int64(count)))
	case valueobject.InterestModeAnnuity:
		per = annuityInstallment(principal, rate, count)
		total = per.Mul(decimal.NewFromInt(int64(count)))
	default:
		return LoanFigures{}, errors.New("unknown interest mode")
	}

	return LoanFigures{
		Total:          total.Round(2),
		PerInstallment: per.Round(2),
		Rate:           rate,
	}, nil
}

// SolveRate inverts the interest model: given a target total it returns the
// effective rate and the recomputed figures. Per-installment and fixed-total
// invert in closed form; annuity runs bounded bisection and returns its best
// estimate even when the gap has not fully closed.
func (c *InterestCalculator) SolveRate(
	mode valueobject.InterestMode,
	principal, targetTotal decimal.Decimal,
	count int,
) (LoanFigures, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return LoanFigures{}, errors.New("principal must be positive")
	}
	if count <= 0 {
		return LoanFigures{}, errors.New("installment count must be positive")
	}
	if targetTotal.LessThan(principal) {
		return LoanFigures{}, errors.New("target total must not be below the principal")
	}

	switch mode {
	case valueobject.InterestModePerInstallment:
		// r = (total/P - 1) / N
		rate := targetTotal.Div(principal).Sub(decimal.NewFromInt(1)).Div(decimal.NewFromInt(int64(count)))
		return c.Compute(mode, principal, rate, count)
	case valueobject.InterestModeFixedTotal:
		// r = total/P - 1
		rate := targetTotal.Div(principal).Sub(decimal.NewFromInt(1))
		return c.Compute(mode, principal, rate, count)
	case valueobject.InterestModeAnnuity:
		rate := solveAnnuityRate(principal, targetTotal, count)
		return c.Compute(mode, principal, rate, count)
	default:
		return LoanFigures{}, errors.New("unknown interest mode")
	}
}

// annuityInstallment computes P*i*(1+i)^N / ((1+i)^N - 1). The power is
// evaluated in float64, in line with how the rest of the book computes
// amortization factors, then the result carries on in decimal.
func annuityInstallment(principal, rate decimal.Decimal, count int) decimal.Decimal {
	i := rate.InexactFloat64()
	if i < 1e-9 {
		// Degenerate zero-rate annuity: even split.
		return principal.Div(decimal.NewFromInt(int64(count)))
	}
	factor := math.Pow(1+i, float64(count))
	payment := principal.InexactFloat64() * i * factor / (factor - 1)
	return decimal.NewFromFloat(payment)
}

// solveAnnuityRate bisects the per-period rate so that the computed
// installment matches targetTotal/count.
func solveAnnuityRate(principal, targetTotal decimal.Decimal, count int) decimal.Decimal {
	targetPer := targetTotal.Div(decimal.NewFromInt(int64(count)))

	lo, hi := 0.0, solverRateCeil
	for iter := 0; iter < solverIterations; iter++ {
		mid := (lo + hi) / 2
		per := annuityInstallment(principal, decimal.NewFromFloat(mid), count)
		if per.LessThan(targetPer) {
			lo = mid
		} else {
			hi = mid
		}
	}
	// Best estimate; non-convergence is an approximation, not an error.
	return decimal.NewFromFloat((lo + hi) / 2)
}
