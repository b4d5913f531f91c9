package jobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]JobPosting
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]JobPosting)}
}

func (r *MemoryRepo) Create(ctx context.Context, job JobPosting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[job.ID] = job
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return JobPosting{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.data[id]
	if !ok {
		return JobPosting{}, ErrNotFound
	}
	return job, nil
}

func (r *MemoryRepo) ListActive(ctx context.Context) ([]JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]JobPosting, 0, len(r.data))
	for _, job := range r.data {
		if job.Active {
			out = append(out, job)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Deactivate(ctx context.Context, id string, at time.Time) (JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return JobPosting{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.data[id]
	if !ok {
		return JobPosting{}, ErrNotFound
	}
	if job.Active {
		job.Active = false
		job.DeactivatedAt = &at
		r.data[id] = job
	}
	return job, nil
}

var _ Repo = (*MemoryRepo)(nil)
