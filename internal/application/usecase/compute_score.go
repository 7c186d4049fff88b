package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/domain/event"
	"github.com/crediario/loan-engine/internal/domain/port"
	"github.com/crediario/loan-engine/internal/domain/service"
	"github.com/crediario/loan-engine/pkg/observability"
)

// ComputeScoreUseCase recomputes a borrower's credit score from their full
// loan history and persists the snapshot.
type ComputeScoreUseCase struct {
	loanRepo  port.LoanRepository
	scoreRepo port.ScoreSnapshotRepository
	publisher port.EventPublisher
	engine    *service.ScoreEngine
}

// NewComputeScoreUseCase wires dependencies.
func NewComputeScoreUseCase(
	loanRepo port.LoanRepository,
	scoreRepo port.ScoreSnapshotRepository,
	publisher port.EventPublisher,
	engine *service.ScoreEngine,
) *ComputeScoreUseCase {
	return &ComputeScoreUseCase{
		loanRepo:  loanRepo,
		scoreRepo: scoreRepo,
		publisher: publisher,
		engine:    engine,
	}
}

// Execute evaluates the borrower and returns the fresh snapshot.
func (uc *ComputeScoreUseCase) Execute(
	ctx context.Context,
	req dto.ComputeScoreRequest,
) (dto.ScoreResponse, error) {
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	loans, err := uc.loanRepo.FindByBorrowerID(ctx, req.TenantID, req.BorrowerID)
	if err != nil {
		return dto.ScoreResponse{}, fmt.Errorf("find loans: %w", err)
	}

	snapshot, err := uc.engine.Evaluate(req.TenantID, req.BorrowerID, loans, asOf)
	if err != nil {
		return dto.ScoreResponse{}, fmt.Errorf("evaluate score: %w", err)
	}

	if err := uc.scoreRepo.Save(ctx, snapshot); err != nil {
		return dto.ScoreResponse{}, fmt.Errorf("save snapshot: %w", err)
	}
	observability.ScoresComputed.WithLabelValues(req.TenantID, snapshot.Band.String()).Inc()

	ev := event.NewScoreComputed(snapshot.BorrowerID, snapshot.TenantID, snapshot.Score, snapshot.Band.String())
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		return dto.ScoreResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toScoreResponse(snapshot), nil
}
