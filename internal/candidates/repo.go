package candidates

import "context"

// Repo defines persistence operations for candidates.
type Repo interface {
	Create(ctx context.Context, c Candidate) error
	GetByID(ctx context.Context, id string) (Candidate, error)
	GetByEmail(ctx context.Context, email string) (Candidate, error)
}
