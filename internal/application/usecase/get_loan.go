package usecase

import (
	"context"
	"fmt"

	"github.com/crediario/loan-engine/internal/application/cache"
	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/domain/port"
)

// GetLoanUseCase retrieves a loan by ID through the read-through cache.
type GetLoanUseCase struct {
	loanRepo  port.LoanRepository
	loanCache *cache.LoanCache
}

// NewGetLoanUseCase wires dependencies.
func NewGetLoanUseCase(loanRepo port.LoanRepository, loanCache *cache.LoanCache) *GetLoanUseCase {
	return &GetLoanUseCase{loanRepo: loanRepo, loanCache: loanCache}
}

// Execute returns a loan response for the given ID.
func (uc *GetLoanUseCase) Execute(
	ctx context.Context,
	req dto.GetLoanRequest,
) (dto.LoanResponse, error) {
	if loan, ok := uc.loanCache.Get(req.TenantID, req.LoanID); ok {
		return toLoanResponse(loan), nil
	}

	loan, err := uc.loanRepo.FindByID(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}
	uc.loanCache.Set(loan)
	return toLoanResponse(loan), nil
}
