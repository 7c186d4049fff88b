package port

import (
	"context"
	"time"

	"github.com/crediario/loan-engine/internal/domain/event"
	"github.com/crediario/loan-engine/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanRepository persists and retrieves loan aggregates. Save must write the
// loan row, every touched installment row and every new/updated payment row
// in one transaction: a payment event either commits in full or not at all,
// and concurrent mutations of a loan are serialized at this boundary.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, tenantID, id string) (model.Loan, error)
	FindByBorrowerID(ctx context.Context, tenantID, borrowerID string) ([]model.Loan, error)
	FindOverdue(ctx context.Context, tenantID string, asOf time.Time) ([]model.Loan, error)
}

// ScoreSnapshotRepository persists computed credit score snapshots.
type ScoreSnapshotRepository interface {
	Save(ctx context.Context, snapshot model.ScoreSnapshot) error
	FindLatest(ctx context.Context, tenantID, borrowerID string) (model.ScoreSnapshot, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers (messaging,
// cache invalidation).
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
