package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crediario/loan-engine/internal/application/cache"
	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/application/usecase"
	"github.com/crediario/loan-engine/internal/domain/model"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

func TestReversePayment_Execute(t *testing.T) {
	opActor := valueobject.Actor{ID: "op-1", Role: valueobject.RoleOperator}

	reverseRequest := func(paymentID, role string) dto.ReversePaymentRequest {
		return dto.ReversePaymentRequest{
			TenantID:  "tenant-001",
			LoanID:    "loan-001",
			PaymentID: paymentID,
			Reason:    "cashier posted twice",
			ActorID:   "actor-1",
			ActorRole: role,
		}
	}

	t.Run("reopens the paid installment", func(t *testing.T) {
		base := storedLoan("loan-001", valueobject.ContractTerms{}, 100)
		paid, p, err := base.RecordFullPayment(1, nil, testDate(2026, 2, 1), opActor, testDate(2026, 2, 1))
		require.NoError(t, err)

		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, tenantID, id string) (model.Loan, error) {
				return paid.ClearEvents(), nil
			},
		}
		publisher := &mockEventPublisher{}
		loanCache := cache.NewLoanCache(time.Minute)
		loanCache.Set(paid)
		uc := usecase.NewReversePaymentUseCase(loanRepo, publisher, loanCache)

		resp, err := uc.Execute(context.Background(), reverseRequest(p.ID, "OPERATOR"))

		require.NoError(t, err)
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.False(t, resp.Installments[0].Paid)
		assert.True(t, decimal.NewFromInt(100).Equal(resp.Outstanding))
		require.NotNil(t, resp.Payments[0].ReversedAt)
		assert.Equal(t, "cashier posted twice", *resp.Payments[0].ReversalReason)

		require.Len(t, loanRepo.savedLoans, 1)
		assert.NotEmpty(t, publisher.publishedEvents)
		_, ok := loanCache.Get("tenant-001", "loan-001")
		assert.False(t, ok)
	})

	t.Run("requires a reason", func(t *testing.T) {
		uc := usecase.NewReversePaymentUseCase(&mockLoanRepository{}, &mockEventPublisher{}, cache.NewLoanCache(time.Minute))

		req := reverseRequest("pay-1", "OPERATOR")
		req.Reason = ""
		_, err := uc.Execute(context.Background(), req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reason is required")
	})

	t.Run("an operator cannot reverse an advance", func(t *testing.T) {
		base := storedLoan("loan-001", valueobject.ContractTerms{}, 100)
		withAdvance, p, err := base.RecordPartialPayment(1, decimal.NewFromInt(30), true, nil,
			testDate(2026, 1, 20), opActor, testDate(2026, 1, 20))
		require.NoError(t, err)

		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, tenantID, id string) (model.Loan, error) {
				return withAdvance.ClearEvents(), nil
			},
		}
		uc := usecase.NewReversePaymentUseCase(loanRepo, &mockEventPublisher{}, cache.NewLoanCache(time.Minute))

		_, err = uc.Execute(context.Background(), reverseRequest(p.ID, "OPERATOR"))
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotAuthorized)

		resp, err := uc.Execute(context.Background(), reverseRequest(p.ID, "SUPERVISOR"))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(100).Equal(resp.Outstanding))
	})

	t.Run("fails on an unknown payment", func(t *testing.T) {
		base := storedLoan("loan-001", valueobject.ContractTerms{}, 100)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, tenantID, id string) (model.Loan, error) {
				return base, nil
			},
		}
		uc := usecase.NewReversePaymentUseCase(loanRepo, &mockEventPublisher{}, cache.NewLoanCache(time.Minute))

		_, err := uc.Execute(context.Background(), reverseRequest("missing", "SUPERVISOR"))

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrPaymentNotFound)
	})
}
