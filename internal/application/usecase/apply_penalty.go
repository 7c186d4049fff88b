package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/crediario/loan-engine/internal/application/cache"
	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/domain/port"
	"github.com/crediario/loan-engine/internal/domain/service"
	"github.com/crediario/loan-engine/pkg/observability"
)

// ApplyPenaltiesUseCase assesses overdue charges for one loan and persists
// them onto the affected installments.
type ApplyPenaltiesUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	engine    *service.PenaltyEngine
	loanCache *cache.LoanCache
}

// NewApplyPenaltiesUseCase wires dependencies.
func NewApplyPenaltiesUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	engine *service.PenaltyEngine,
	loanCache *cache.LoanCache,
) *ApplyPenaltiesUseCase {
	return &ApplyPenaltiesUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		engine:    engine,
		loanCache: loanCache,
	}
}

// Execute assesses and applies the charges, returning what was charged.
func (uc *ApplyPenaltiesUseCase) Execute(
	ctx context.Context,
	req dto.ApplyPenaltiesRequest,
) (dto.PenaltyRunResponse, error) {
	now := time.Now().UTC()
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = now
	}

	loan, err := uc.loanRepo.FindByID(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return dto.PenaltyRunResponse{}, fmt.Errorf("find loan: %w", err)
	}

	terms := loan.Terms()
	charges := uc.engine.Assess(loan.Installments(), terms.Penalty, terms.LateInterest, asOf)
	if len(charges) == 0 {
		return dto.PenaltyRunResponse{LoanID: loan.ID(), AsOf: asOf}, nil
	}

	loan, err = loan.ApplyCharges(charges, asOf, now)
	if err != nil {
		return dto.PenaltyRunResponse{}, fmt.Errorf("apply charges: %w", err)
	}

	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.PenaltyRunResponse{}, fmt.Errorf("save loan: %w", err)
	}
	uc.loanCache.Invalidate(req.TenantID, req.LoanID)
	observability.PenaltiesApplied.WithLabelValues(req.TenantID).Inc()

	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.PenaltyRunResponse{}, fmt.Errorf("publish events: %w", err)
	}

	views := make([]dto.InstallmentChargeView, len(charges))
	for i, c := range charges {
		views[i] = dto.InstallmentChargeView{
			Sequence:     c.Sequence,
			DaysLate:     c.DaysLate,
			Penalty:      c.Penalty,
			LateInterest: c.LateInterest,
		}
	}
	return dto.PenaltyRunResponse{LoanID: loan.ID(), AsOf: asOf, Charges: views}, nil
}

// Sweep assesses every overdue loan of a tenant. It keeps going past
// per-loan failures and reports how many loans were charged.
func (uc *ApplyPenaltiesUseCase) Sweep(ctx context.Context, tenantID string, asOf time.Time) (int, error) {
	loans, err := uc.loanRepo.FindOverdue(ctx, tenantID, asOf)
	if err != nil {
		return 0, fmt.Errorf("find overdue loans: %w", err)
	}

	charged := 0
	var firstErr error
	for _, loan := range loans {
		run, err := uc.Execute(ctx, dto.ApplyPenaltiesRequest{
			TenantID: tenantID,
			LoanID:   loan.ID(),
			AsOf:     asOf,
		})
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("sweep loan %s: %w", loan.ID(), err)
			}
			continue
		}
		if len(run.Charges) > 0 {
			charged++
		}
	}
	return charged, firstErr
}
