package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/crediario/loan-engine/internal/application/cache"
	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/domain/port"
)

// CancelLoanUseCase voids an active contract.
type CancelLoanUseCase struct {
	loanRepo  port.LoanRepository
	loanCache *cache.LoanCache
}

// NewCancelLoanUseCase wires dependencies.
func NewCancelLoanUseCase(loanRepo port.LoanRepository, loanCache *cache.LoanCache) *CancelLoanUseCase {
	return &CancelLoanUseCase{loanRepo: loanRepo, loanCache: loanCache}
}

// Execute cancels the loan.
func (uc *CancelLoanUseCase) Execute(
	ctx context.Context,
	req dto.GetLoanRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	loan, err := uc.loanRepo.FindByID(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}
	loan, err = loan.Cancel(now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("cancel loan: %w", err)
	}
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}
	uc.loanCache.Invalidate(req.TenantID, req.LoanID)
	return toLoanResponse(loan), nil
}

// AdvanceLoanUseCase flags a contract as rolled into a renegotiated one.
type AdvanceLoanUseCase struct {
	loanRepo  port.LoanRepository
	loanCache *cache.LoanCache
}

// NewAdvanceLoanUseCase wires dependencies.
func NewAdvanceLoanUseCase(loanRepo port.LoanRepository, loanCache *cache.LoanCache) *AdvanceLoanUseCase {
	return &AdvanceLoanUseCase{loanRepo: loanRepo, loanCache: loanCache}
}

// Execute marks the loan advanced.
func (uc *AdvanceLoanUseCase) Execute(
	ctx context.Context,
	req dto.GetLoanRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	loan, err := uc.loanRepo.FindByID(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}
	loan, err = loan.MarkAdvanced(now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("mark advanced: %w", err)
	}
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}
	uc.loanCache.Invalidate(req.TenantID, req.LoanID)
	return toLoanResponse(loan), nil
}
