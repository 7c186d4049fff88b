package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/crediario/loan-engine/internal/application/cache"
	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/domain/model"
	"github.com/crediario/loan-engine/internal/domain/port"
	"github.com/crediario/loan-engine/pkg/observability"
)

// Payment kinds accepted by ApplyPaymentUseCase.
const (
	PaymentKindFull         = "full"
	PaymentKindPartial      = "partial"
	PaymentKindAdvance      = "advance"
	PaymentKindInterestOnly = "interest_only"
)

// ApplyPaymentUseCase applies a payment of any collection flavor against one
// installment of a loan.
type ApplyPaymentUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	loanCache *cache.LoanCache
}

// NewApplyPaymentUseCase wires dependencies.
func NewApplyPaymentUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	loanCache *cache.LoanCache,
) *ApplyPaymentUseCase {
	return &ApplyPaymentUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		loanCache: loanCache,
	}
}

// Execute records the payment and returns the updated loan.
func (uc *ApplyPaymentUseCase) Execute(
	ctx context.Context,
	req dto.ApplyPaymentRequest,
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

	var p model.Payment
	switch strings.ToLower(req.Kind) {
	case PaymentKindFull:
		loan, p, err = loan.RecordFullPayment(req.Sequence, req.Amount, req.PaymentDate, actor, now)
	case PaymentKindPartial:
		if req.Amount == nil {
			return dto.LoanResponse{}, fmt.Errorf("partial payment requires an amount")
		}
		loan, p, err = loan.RecordPartialPayment(req.Sequence, *req.Amount, false, req.RescheduleTo, req.PaymentDate, actor, now)
	case PaymentKindAdvance:
		if req.Amount == nil {
			return dto.LoanResponse{}, fmt.Errorf("advance payment requires an amount")
		}
		loan, p, err = loan.RecordPartialPayment(req.Sequence, *req.Amount, true, nil, req.PaymentDate, actor, now)
	case PaymentKindInterestOnly:
		if req.Amount == nil {
			return dto.LoanResponse{}, fmt.Errorf("interest-only payment requires an amount")
		}
		loan, p, err = loan.RecordInterestOnly(req.Sequence, *req.Amount, req.FullInterest, req.RescheduleTo, req.PaymentDate, actor, now)
	default:
		return dto.LoanResponse{}, fmt.Errorf("unknown payment kind: %q", req.Kind)
	}
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("apply payment: %w", err)
	}

	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}
	uc.loanCache.Invalidate(req.TenantID, req.LoanID)
	observability.PaymentsApplied.WithLabelValues(req.TenantID, p.Type.String()).Inc()

	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toLoanResponse(loan), nil
}
