package usecase

import (
	"context"
	"fmt"

	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/domain/service"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

// SimulateLoanUseCase runs the contract math without persisting anything:
// totals, per-installment amount and the adjusted due date series.
type SimulateLoanUseCase struct {
	schedule *service.ScheduleGenerator
	interest *service.InterestCalculator
}

// NewSimulateLoanUseCase wires dependencies.
func NewSimulateLoanUseCase(
	schedule *service.ScheduleGenerator,
	interest *service.InterestCalculator,
) *SimulateLoanUseCase {
	return &SimulateLoanUseCase{schedule: schedule, interest: interest}
}

// Execute computes the simulation for the requested terms.
func (uc *SimulateLoanUseCase) Execute(
	ctx context.Context,
	req dto.SimulateLoanRequest,
) (dto.SimulationResponse, error) {
	mode, err := valueobject.NewInterestMode(req.InterestMode)
	if err != nil {
		return dto.SimulationResponse{}, fmt.Errorf("parse interest mode: %w", err)
	}
	cadence, err := valueobject.NewCadence(req.Cadence)
	if err != nil {
		return dto.SimulationResponse{}, fmt.Errorf("parse cadence: %w", err)
	}

	var figures service.LoanFigures
	if req.ManualTotal != nil {
		figures, err = uc.interest.SolveRate(mode, req.Principal, *req.ManualTotal, req.InstallmentCount)
	} else {
		figures, err = uc.interest.Compute(mode, req.Principal, req.NominalRate, req.InstallmentCount)
	}
	if err != nil {
		return dto.SimulationResponse{}, fmt.Errorf("compute figures: %w", err)
	}

	dueDates, err := uc.schedule.DueDates(service.ScheduleInput{
		FirstDueDate: req.FirstDueDate,
		ContractDate: req.ContractDate,
		GraceDays:    req.GraceDays,
		Count:        req.InstallmentCount,
		Cadence:      cadence,
		FixedWeekday: req.FixedWeekday,
		Rules: valueobject.CollectionRules{
			AllowSaturday: req.AllowSaturday,
			AllowSunday:   req.AllowSunday,
			AllowHoliday:  req.AllowHoliday,
		},
	})
	if err != nil {
		return dto.SimulationResponse{}, fmt.Errorf("generate schedule: %w", err)
	}

	installments := service.BuildInstallments(dueDates, figures.Total, figures.PerInstallment)
	instResp := make([]dto.InstallmentResponse, len(installments))
	for i, inst := range installments {
		instResp[i] = toInstallmentResponse(inst)
	}

	return dto.SimulationResponse{
		Total:          figures.Total,
		PerInstallment: figures.PerInstallment,
		Rate:           figures.Rate,
		Installments:   instResp,
	}, nil
}

// SolveRateUseCase inverts the interest model: given a target total it
// returns the implied nominal rate.
type SolveRateUseCase struct {
	interest *service.InterestCalculator
}

// NewSolveRateUseCase wires dependencies.
func NewSolveRateUseCase(interest *service.InterestCalculator) *SolveRateUseCase {
	return &SolveRateUseCase{interest: interest}
}

// Execute solves the rate for the requested target total.
func (uc *SolveRateUseCase) Execute(
	ctx context.Context,
	req dto.SolveRateRequest,
) (dto.SolveRateResponse, error) {
	mode, err := valueobject.NewInterestMode(req.InterestMode)
	if err != nil {
		return dto.SolveRateResponse{}, fmt.Errorf("parse interest mode: %w", err)
	}
	figures, err := uc.interest.SolveRate(mode, req.Principal, req.TargetTotal, req.InstallmentCount)
	if err != nil {
		return dto.SolveRateResponse{}, fmt.Errorf("solve rate: %w", err)
	}
	return dto.SolveRateResponse{Rate: figures.Rate}, nil
}
