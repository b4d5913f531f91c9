package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for job postings.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// CreateInput carries the fields of a new posting.
type CreateInput struct {
	Title        string
	Company      string
	Location     string
	Description  string
	Requirements string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (JobPosting, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return JobPosting{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	job := JobPosting{
		ID:           uuid.NewString(),
		Title:        title,
		Company:      strings.TrimSpace(in.Company),
		Location:     strings.TrimSpace(in.Location),
		Description:  strings.TrimSpace(in.Description),
		Requirements: strings.TrimSpace(in.Requirements),
		Active:       true,
		CreatedAt:    s.now(),
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return JobPosting{}, err
	}
	return job, nil
}

func (s *Service) Get(ctx context.Context, id string) (JobPosting, error) {
	return s.Repo.GetByID(ctx, id)
}

// ListActive returns only active postings.
func (s *Service) ListActive(ctx context.Context) ([]JobPosting, error) {
	return s.Repo.ListActive(ctx)
}

func (s *Service) Deactivate(ctx context.Context, id string) (JobPosting, error) {
	return s.Repo.Deactivate(ctx, id, s.now())
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
