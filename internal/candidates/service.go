package candidates

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for candidates.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// Create registers a new candidate. Emails are unique regardless of case.
func (s *Service) Create(ctx context.Context, name, email, phone string) (Candidate, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return Candidate{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Candidate{}, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}

	c := Candidate{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(phone),
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return Candidate{}, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (Candidate, error) {
	if strings.TrimSpace(id) == "" {
		return Candidate{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
