package candidates

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService() *Service {
	fixed := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	return &Service{Repo: NewMemoryRepo(), Now: func() time.Time { return fixed }}
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	c, err := svc.Create(ctx, " Jane Doe ", "Jane@Example.com", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == "" || c.Name != "Jane Doe" {
		t.Fatalf("unexpected candidate %+v", c)
	}

	got, err := svc.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "Jane@Example.com" {
		t.Fatalf("unexpected email %q", got.Email)
	}

	byEmail, err := svc.Repo.GetByEmail(ctx, "jane@example.COM")
	if err != nil || byEmail.ID != c.ID {
		t.Fatalf("expected case-insensitive email lookup, got %+v %v", byEmail, err)
	}
}

func TestCreateRejectsDuplicateEmailIgnoringCase(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Jane", "jane@example.com", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, "Other Jane", "JANE@example.com", "")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestCreateValidates(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name  string
		cname string
		email string
	}{
		{name: "missing name", cname: " ", email: "a@b.co"},
		{name: "bad email", cname: "A", email: "not-an-email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.cname, tt.email, ""); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestGetUnknown(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
