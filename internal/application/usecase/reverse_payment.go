package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/crediario/loan-engine/internal/application/cache"
	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/domain/port"
	"github.com/crediario/loan-engine/pkg/observability"
)

// ReversePaymentUseCase undoes a recorded payment and rebuilds the loan's
// balances from the surviving history.
type ReversePaymentUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	loanCache *cache.LoanCache
}

// NewReversePaymentUseCase wires dependencies.
func NewReversePaymentUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	loanCache *cache.LoanCache,
) *ReversePaymentUseCase {
	return &ReversePaymentUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		loanCache: loanCache,
	}
}

// Execute reverses the payment and returns the rebuilt loan.
func (uc *ReversePaymentUseCase) Execute(
	ctx context.Context,
	req dto.ReversePaymentRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	actor, err := parseActor(req.ActorID, req.ActorRole)
	if err != nil {
		return dto.LoanResponse{}, err
	}
	if req.Reason == "" {
		return dto.LoanResponse{}, fmt.Errorf("reversal reason is required")
	}

	loan, err := uc.loanRepo.FindByID(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	var reversedType string
	for _, p := range loan.Payments() {
		if p.ID == req.PaymentID {
			reversedType = p.Type.String()
			break
		}
	}

	loan, err = loan.ReversePayment(req.PaymentID, actor, req.Reason, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("reverse payment: %w", err)
	}

	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}
	uc.loanCache.Invalidate(req.TenantID, req.LoanID)
	observability.PaymentsReversed.WithLabelValues(req.TenantID, reversedType).Inc()

	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toLoanResponse(loan), nil
}
