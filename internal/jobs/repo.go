package jobs

import (
	"context"
	"time"
)

// Repo defines persistence operations for job postings.
type Repo interface {
	Create(ctx context.Context, job JobPosting) error
	GetByID(ctx context.Context, id string) (JobPosting, error)
	// ListActive returns active postings, oldest first.
	ListActive(ctx context.Context) ([]JobPosting, error)
	// Deactivate marks a posting inactive. Deactivating twice keeps the first timestamp.
	Deactivate(ctx context.Context, id string, at time.Time) (JobPosting, error)
}
