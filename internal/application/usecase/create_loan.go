package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/domain/model"
	"github.com/crediario/loan-engine/internal/domain/port"
	"github.com/crediario/loan-engine/internal/domain/service"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

// CreateLoanUseCase originates a new loan contract: it computes the totals,
// lays out the schedule and persists the aggregate.
type CreateLoanUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	schedule  *service.ScheduleGenerator
	interest  *service.InterestCalculator
}

// NewCreateLoanUseCase wires dependencies.
func NewCreateLoanUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	schedule *service.ScheduleGenerator,
	interest *service.InterestCalculator,
) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		schedule:  schedule,
		interest:  interest,
	}
}

// Execute originates the loan described by the request.
func (uc *CreateLoanUseCase) Execute(
	ctx context.Context,
	req dto.CreateLoanRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	mode, err := valueobject.NewInterestMode(req.InterestMode)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("parse interest mode: %w", err)
	}
	cadence, err := valueobject.NewCadence(req.Cadence)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("parse cadence: %w", err)
	}
	terms, err := buildTerms(req)
	if err != nil {
		return dto.LoanResponse{}, err
	}

	// A manual total overrides the rate-derived figures; the effective rate
	// is solved back from it so quotes stay consistent.
	var figures service.LoanFigures
	if terms.ManualTotal != nil {
		figures, err = uc.interest.SolveRate(mode, req.Principal, *terms.ManualTotal, req.InstallmentCount)
	} else {
		figures, err = uc.interest.Compute(mode, req.Principal, req.NominalRate, req.InstallmentCount)
	}
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("compute figures: %w", err)
	}

	dueDates, err := uc.schedule.DueDates(service.ScheduleInput{
		FirstDueDate: req.FirstDueDate,
		ContractDate: req.ContractDate,
		GraceDays:    req.GraceDays,
		Count:        req.InstallmentCount,
		Cadence:      cadence,
		FixedWeekday: req.FixedWeekday,
		Rules:        terms.Rules,
	})
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("generate schedule: %w", err)
	}
	installments := service.BuildInstallments(dueDates, figures.Total, figures.PerInstallment)

	loan, err := model.NewLoan(
		req.TenantID, req.BorrowerID,
		req.Principal, figures.Rate,
		mode, cadence,
		req.ContractDate, req.GraceDays,
		terms,
		figures.Total, figures.PerInstallment,
		installments,
		now,
	)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("create loan: %w", err)
	}

	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toLoanResponse(loan), nil
}

func buildTerms(req dto.CreateLoanRequest) (valueobject.ContractTerms, error) {
	terms := valueobject.ContractTerms{
		ManualTotal:  req.ManualTotal,
		FixedWeekday: req.FixedWeekday,
		Rules: valueobject.CollectionRules{
			AllowSaturday: req.AllowSaturday,
			AllowSunday:   req.AllowSunday,
			AllowHoliday:  req.AllowHoliday,
		},
	}
	if req.Penalty != nil {
		mode, err := valueobject.NewPenaltyMode(req.Penalty.Mode)
		if err != nil {
			return valueobject.ContractTerms{}, fmt.Errorf("parse penalty mode: %w", err)
		}
		terms.Penalty = valueobject.PenaltyConfig{
			Enabled:        true,
			Mode:           mode,
			Amount:         req.Penalty.Amount,
			TargetSequence: req.Penalty.TargetSequence,
		}
	}
	if req.LateInterest != nil {
		terms.LateInterest = valueobject.LateInterestConfig{
			Enabled: true,
			Percent: req.LateInterest.Percent,
			Rate:    req.LateInterest.Rate,
		}
	}
	return terms, nil
}
