package resumes

import (
	"context"
	"time"
)

// Repo defines persistence operations for résumé documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	// ListBySource returns documents oldest first, so enumeration order is upload order.
	ListBySource(ctx context.Context, source Source) ([]Document, error)
	// UpdateExtraction records the sidecar key the first time text is extracted.
	UpdateExtraction(ctx context.Context, storageKey, extractedKey string, extractedAt time.Time) error
}
