package applications

import (
	"context"
	"math"
	"time"
)

// Repo defines persistence operations for applications and their log.
// Every write to an application appends a log entry atomically with it.
type Repo interface {
	// Create inserts a new application. Unknown candidate or job yields ErrReference.
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, id string) (Application, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]Application, error)
	ListByJob(ctx context.Context, jobID string) ([]Application, error)
	// RecordScreeningOutcome overwrites the (score, status) pair as one unit.
	RecordScreeningOutcome(ctx context.Context, id string, score float64, status Status, at time.Time) error
	// Transition moves an application to next if the current status allows it
	// and returns the previous status.
	Transition(ctx context.Context, id string, next Status, at time.Time) (Application, Status, error)
	// ListLog returns the newest entries first.
	ListLog(ctx context.Context, limit int) ([]LogEntry, error)
	// RebuildLog replaces the log with one snapshot entry per application and
	// returns how many entries were written.
	RebuildLog(ctx context.Context, at time.Time) (int, error)
}

func validateOutcome(score float64, status Status) error {
	if math.IsNaN(score) || score < 0 || score > 100 {
		return ErrInvalidScore
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
