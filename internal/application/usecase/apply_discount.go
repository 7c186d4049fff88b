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

// ApplyDiscountUseCase forgives part of a loan's outstanding balance across
// the selected installments.
type ApplyDiscountUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	loanCache *cache.LoanCache
}

// NewApplyDiscountUseCase wires dependencies.
func NewApplyDiscountUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	loanCache *cache.LoanCache,
) *ApplyDiscountUseCase {
	return &ApplyDiscountUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		loanCache: loanCache,
	}
}

// Execute applies the discount and returns the updated loan.
func (uc *ApplyDiscountUseCase) Execute(
	ctx context.Context,
	req dto.ApplyDiscountRequest,
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

	// An empty selection means the whole schedule.
	seqs := req.Sequences
	if len(seqs) == 0 {
		for _, inst := range loan.Installments() {
			seqs = append(seqs, inst.Sequence)
		}
	}

	loan, _, err = loan.ApplyDiscount(req.Amount, seqs, actor, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("apply discount: %w", err)
	}

	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}
	uc.loanCache.Invalidate(req.TenantID, req.LoanID)
	observability.PaymentsApplied.WithLabelValues(req.TenantID, valueobject.PaymentTypeDiscount.String()).Inc()

	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toLoanResponse(loan), nil
}
