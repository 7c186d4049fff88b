package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crediario/loan-engine/internal/application/cache"
	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/application/usecase"
	"github.com/crediario/loan-engine/internal/domain/model"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

func TestCancelLoan_Execute(t *testing.T) {
	t.Run("cancels an active loan", func(t *testing.T) {
		loan := storedLoan("loan-001", valueobject.ContractTerms{}, 100)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, tenantID, id string) (model.Loan, error) {
				return loan, nil
			},
		}
		loanCache := cache.NewLoanCache(time.Minute)
		loanCache.Set(loan)
		uc := usecase.NewCancelLoanUseCase(loanRepo, loanCache)

		resp, err := uc.Execute(context.Background(), dto.GetLoanRequest{TenantID: "tenant-001", LoanID: "loan-001"})

		require.NoError(t, err)
		assert.Equal(t, "CANCELED", resp.Status)
		require.Len(t, loanRepo.savedLoans, 1)
		_, ok := loanCache.Get("tenant-001", "loan-001")
		assert.False(t, ok)
	})

	t.Run("fails on a non-active loan", func(t *testing.T) {
		loan := storedLoan("loan-001", valueobject.ContractTerms{}, 100)
		canceled, err := loan.Cancel(testDate(2026, 2, 1))
		require.NoError(t, err)

		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, tenantID, id string) (model.Loan, error) {
				return canceled, nil
			},
		}
		uc := usecase.NewCancelLoanUseCase(loanRepo, cache.NewLoanCache(time.Minute))

		_, err = uc.Execute(context.Background(), dto.GetLoanRequest{TenantID: "tenant-001", LoanID: "loan-001"})

		require.Error(t, err)
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})
}

func TestAdvanceLoan_Execute(t *testing.T) {
	t.Run("marks the rollover", func(t *testing.T) {
		loan := storedLoan("loan-001", valueobject.ContractTerms{}, 100)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, tenantID, id string) (model.Loan, error) {
				return loan, nil
			},
		}
		uc := usecase.NewAdvanceLoanUseCase(loanRepo, cache.NewLoanCache(time.Minute))

		resp, err := uc.Execute(context.Background(), dto.GetLoanRequest{TenantID: "tenant-001", LoanID: "loan-001"})

		require.NoError(t, err)
		assert.Equal(t, "ADVANCED", resp.Status)
		require.Len(t, loanRepo.savedLoans, 1)
	})
}
