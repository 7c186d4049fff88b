package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/crediario/loan-engine/internal/application/cache"
	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/domain/port"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
	"github.com/crediario/loan-engine/pkg/observability"
)

// SettleLoanUseCase pays off every open installment of a loan in one event.
type SettleLoanUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	loanCache *cache.LoanCache
}

// NewSettleLoanUseCase wires dependencies.
func NewSettleLoanUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	loanCache *cache.LoanCache,
) *SettleLoanUseCase {
	return &SettleLoanUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		loanCache: loanCache,
	}
}

// Execute settles the loan and returns its final state.
func (uc *SettleLoanUseCase) Execute(
	ctx context.Context,
	req dto.SettleLoanRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	actor, err := parseActor(req.ActorID, req.ActorRole)
	if err != nil {
		return dto.LoanResponse{}, err
	}

	loan, err := uc.loanRepo.FindByID(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	loan, _, err = loan.Settle(req.PaymentDate, actor, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("settle loan: %w", err)
	}

	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}
	uc.loanCache.Invalidate(req.TenantID, req.LoanID)
	observability.PaymentsApplied.WithLabelValues(req.TenantID, valueobject.PaymentTypeSettlement.String()).Inc()

	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toLoanResponse(loan), nil
}
