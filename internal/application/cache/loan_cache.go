package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/crediario/loan-engine/internal/domain/model"
)

// LoanCache is a read-through cache for loan aggregates. Mutating use cases
// invalidate the entry after a successful save; readers fall back to the
// repository on a miss.
type LoanCache struct {
	store *gocache.Cache
}

// NewLoanCache creates a cache with the given entry TTL.
func NewLoanCache(ttl time.Duration) *LoanCache {
	return &LoanCache{
		store: gocache.New(ttl, 2*ttl),
	}
}

// Get returns the cached loan, if present.
func (c *LoanCache) Get(tenantID, loanID string) (model.Loan, bool) {
	v, ok := c.store.Get(key(tenantID, loanID))
	if !ok {
		return model.Loan{}, false
	}
	loan, ok := v.(model.Loan)
	return loan, ok
}

// Set stores the loan under its tenant-scoped key.
func (c *LoanCache) Set(loan model.Loan) {
	c.store.SetDefault(key(loan.TenantID(), loan.ID()), loan)
}

// Invalidate drops the entry for a loan.
func (c *LoanCache) Invalidate(tenantID, loanID string) {
	c.store.Delete(key(tenantID, loanID))
}

func key(tenantID, loanID string) string {
	return tenantID + "/" + loanID
}
