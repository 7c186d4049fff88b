package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crediario/loan-engine/internal/domain/model"
	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

// ErrScoreNotFound is returned when a borrower has no score snapshot yet.
var ErrScoreNotFound = errors.New("score snapshot not found")

// ScoreRepo implements port.ScoreSnapshotRepository.
type ScoreRepo struct {
	pool *pgxpool.Pool
}

// NewScoreRepo creates a new PostgreSQL-backed score snapshot repository.
func NewScoreRepo(pool *pgxpool.Pool) *ScoreRepo {
	return &ScoreRepo{pool: pool}
}

// Save appends a score snapshot. Snapshots are immutable history.
func (r *ScoreRepo) Save(ctx context.Context, s model.ScoreSnapshot) error {
	query := `
		INSERT INTO score_snapshots (
			id, tenant_id, borrower_id, score, band,
			evaluated, on_time_paid, late_paid, late_unpaid, evaluated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	_, err := r.pool.Exec(ctx, query,
		s.ID, s.TenantID, s.BorrowerID, s.Score, s.Band.String(),
		s.Evaluated, s.OnTimePaid, s.LatePaid, s.LateUnpaid, s.EvaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("save score snapshot: %w", err)
	}
	return nil
}

// FindLatest returns the most recent snapshot of a borrower.
func (r *ScoreRepo) FindLatest(ctx context.Context, tenantID, borrowerID string) (model.ScoreSnapshot, error) {
	query := `
		SELECT id, tenant_id, borrower_id, score, band,
		       evaluated, on_time_paid, late_paid, late_unpaid, evaluated_at
		FROM score_snapshots
		WHERE tenant_id = $1 AND borrower_id = $2
		ORDER BY evaluated_at DESC
		LIMIT 1
	`
	var (
		s       model.ScoreSnapshot
		bandStr string
	)
	err := r.pool.QueryRow(ctx, query, tenantID, borrowerID).Scan(
		&s.ID, &s.TenantID, &s.BorrowerID, &s.Score, &bandStr,
		&s.Evaluated, &s.OnTimePaid, &s.LatePaid, &s.LateUnpaid, &s.EvaluatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ScoreSnapshot{}, ErrScoreNotFound
	}
	if err != nil {
		return model.ScoreSnapshot{}, fmt.Errorf("scan score snapshot: %w", err)
	}
	if s.Band, err = valueobject.NewScoreBand(bandStr); err != nil {
		return model.ScoreSnapshot{}, fmt.Errorf("parse score band: %w", err)
	}
	return s, nil
}
