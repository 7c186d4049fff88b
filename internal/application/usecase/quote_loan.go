package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/crediario/loan-engine/internal/application/cache"
	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/domain/port"
	"github.com/crediario/loan-engine/internal/domain/service"
)

// QuoteLoanUseCase computes the live receivable position of a loan without
// mutating it. Reads go through the loan cache.
type QuoteLoanUseCase struct {
	loanRepo  port.LoanRepository
	loanCache *cache.LoanCache
}

// NewQuoteLoanUseCase wires dependencies.
func NewQuoteLoanUseCase(loanRepo port.LoanRepository, loanCache *cache.LoanCache) *QuoteLoanUseCase {
	return &QuoteLoanUseCase{loanRepo: loanRepo, loanCache: loanCache}
}

// Execute returns the quote as of the requested date.
func (uc *QuoteLoanUseCase) Execute(
	ctx context.Context,
	req dto.QuoteLoanRequest,
) (dto.QuoteResponse, error) {
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	loan, ok := uc.loanCache.Get(req.TenantID, req.LoanID)
	if !ok {
		var err error
		loan, err = uc.loanRepo.FindByID(ctx, req.TenantID, req.LoanID)
		if err != nil {
			return dto.QuoteResponse{}, fmt.Errorf("find loan: %w", err)
		}
		uc.loanCache.Set(loan)
	}

	return toQuoteResponse(service.Quote(loan, asOf)), nil
}
