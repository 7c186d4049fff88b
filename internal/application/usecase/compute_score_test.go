package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/application/usecase"
	"github.com/crediario/loan-engine/internal/domain/event"
	"github.com/crediario/loan-engine/internal/domain/model"
	"github.com/crediario/loan-engine/internal/domain/service"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

type mockScoreRepository struct {
	saveFunc       func(ctx context.Context, snapshot model.ScoreSnapshot) error
	findLatestFunc func(ctx context.Context, tenantID, borrowerID string) (model.ScoreSnapshot, error)
	saved          []model.ScoreSnapshot
}

func (m *mockScoreRepository) Save(ctx context.Context, snapshot model.ScoreSnapshot) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, snapshot)
	}
	m.saved = append(m.saved, snapshot)
	return nil
}

func (m *mockScoreRepository) FindLatest(ctx context.Context, tenantID, borrowerID string) (model.ScoreSnapshot, error) {
	if m.findLatestFunc != nil {
		return m.findLatestFunc(ctx, tenantID, borrowerID)
	}
	return model.ScoreSnapshot{}, fmt.Errorf("score not found")
}

// historyLoan has one installment paid at its due date and one still open
// past due.
func historyLoan() model.Loan {
	due1 := testDate(2026, 2, 1)
	due2 := testDate(2026, 3, 1)
	created := testDate(2026, 1, 1)
	hundred := decimal.NewFromInt(100)
	return model.ReconstructLoan(
		"loan-001", "tenant-001", "borrower-001",
		decimal.NewFromInt(200), decimal.Zero,
		valueobject.InterestModePerInstallment, valueobject.CadenceMonthly,
		created, 0, valueobject.ContractTerms{},
		decimal.NewFromInt(200), hundred,
		valueobject.LoanStatusActive,
		[]model.Installment{
			{
				Sequence: 1, DueDate: due1,
				BaseAmount: hundred, PaidAmount: hundred,
				RemainingBalance: decimal.Zero, Paid: true, PaidAt: &due1,
			},
			{
				Sequence: 2, DueDate: due2,
				BaseAmount: hundred, PaidAmount: decimal.Zero,
				RemainingBalance: hundred,
			},
		},
		nil, 1, created, created,
	)
}

func TestComputeScore_Execute(t *testing.T) {
	engine := service.NewScoreEngine(service.DefaultScoreParams())

	t.Run("scores the borrower and persists the snapshot", func(t *testing.T) {
		loanRepo := &mockLoanRepository{
			findByBorrowerIDFunc: func(ctx context.Context, tenantID, borrowerID string) ([]model.Loan, error) {
				return []model.Loan{historyLoan()}, nil
			},
		}
		scoreRepo := &mockScoreRepository{}
		publisher := &mockEventPublisher{}
		uc := usecase.NewComputeScoreUseCase(loanRepo, scoreRepo, publisher, engine)

		// One installment paid on time, one open past due.
		resp, err := uc.Execute(context.Background(), dto.ComputeScoreRequest{
			TenantID:   "tenant-001",
			BorrowerID: "borrower-001",
			AsOf:       testDate(2026, 4, 1),
		})

		require.NoError(t, err)
		assert.Equal(t, "borrower-001", resp.BorrowerID)
		assert.Equal(t, 2, resp.Evaluated)
		assert.Equal(t, 1, resp.OnTimePaid)
		assert.Equal(t, 1, resp.LateUnpaid)
		assert.Equal(t, 645, resp.Score)
		assert.Equal(t, "C", resp.Band)

		require.Len(t, scoreRepo.saved, 1)
		assert.Equal(t, 645, scoreRepo.saved[0].Score)
		require.Len(t, publisher.publishedEvents, 1)
		assert.IsType(t, event.ScoreComputed{}, publisher.publishedEvents[0])
	})

	t.Run("a borrower with no history lands at the top", func(t *testing.T) {
		loanRepo := &mockLoanRepository{
			findByBorrowerIDFunc: func(ctx context.Context, tenantID, borrowerID string) ([]model.Loan, error) {
				return nil, nil
			},
		}
		scoreRepo := &mockScoreRepository{}
		uc := usecase.NewComputeScoreUseCase(loanRepo, scoreRepo, &mockEventPublisher{}, engine)

		resp, err := uc.Execute(context.Background(), dto.ComputeScoreRequest{
			TenantID:   "tenant-001",
			BorrowerID: "borrower-002",
		})

		require.NoError(t, err)
		assert.Equal(t, 1000, resp.Score)
		assert.Equal(t, "A", resp.Band)
		assert.Equal(t, 0, resp.Evaluated)
	})

	t.Run("fails when the borrower lookup fails", func(t *testing.T) {
		loanRepo := &mockLoanRepository{
			findByBorrowerIDFunc: func(ctx context.Context, tenantID, borrowerID string) ([]model.Loan, error) {
				return nil, fmt.Errorf("database unavailable")
			},
		}
		uc := usecase.NewComputeScoreUseCase(loanRepo, &mockScoreRepository{}, &mockEventPublisher{}, engine)

		_, err := uc.Execute(context.Background(), dto.ComputeScoreRequest{
			TenantID:   "tenant-001",
			BorrowerID: "borrower-001",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "find loans")
	})

	t.Run("fails when the snapshot save fails", func(t *testing.T) {
		loanRepo := &mockLoanRepository{
			findByBorrowerIDFunc: func(ctx context.Context, tenantID, borrowerID string) ([]model.Loan, error) {
				return []model.Loan{historyLoan()}, nil
			},
		}
		scoreRepo := &mockScoreRepository{
			saveFunc: func(ctx context.Context, s model.ScoreSnapshot) error {
				return fmt.Errorf("database unavailable")
			},
		}
		uc := usecase.NewComputeScoreUseCase(loanRepo, scoreRepo, &mockEventPublisher{}, engine)

		_, err := uc.Execute(context.Background(), dto.ComputeScoreRequest{
			TenantID:   "tenant-001",
			BorrowerID: "borrower-001",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "save snapshot")
	})
}
