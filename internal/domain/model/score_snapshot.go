package model

import (
	"time"

	"github.com/crediario/loan-engine/internal/domain/valueobject"
)

// ScoreSnapshot is the derived credit standing of a borrower at a point in
// time, with the counts that produced it.
type ScoreSnapshot struct {
	ID          string
	TenantID    string
	BorrowerID  string
	Score       int
	Band        valueobject.ScoreBand
	Evaluated   int
	OnTimePaid  int
	LatePaid    int
	LateUnpaid  int
	EvaluatedAt time.Time
}
