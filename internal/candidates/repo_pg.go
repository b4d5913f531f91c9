package candidates

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"resume-screener/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, c Candidate) error {
	const query = `
INSERT INTO candidates (id, name, email, phone, created_at)
VALUES ($1, $2, $3, $4, $5)`
	var phone sql.NullString
	if c.Phone != "" {
		phone = sql.NullString{String: c.Phone, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.Name, c.Email, phone, c.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Candidate, error) {
	const query = `
SELECT id, name, email, phone, created_at
FROM candidates
WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (Candidate, error) {
	const query = `
SELECT id, name, email, phone, created_at
FROM candidates
WHERE lower(email) = lower($1)`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, strings.TrimSpace(email)))
}

func (r *PGRepo) scanOne(row *sql.Row) (Candidate, error) {
	var c Candidate
	var phone sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &phone, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Candidate{}, ErrNotFound
		}
		return Candidate{}, err
	}
	if phone.Valid {
		c.Phone = phone.String
	}
	return c, nil
}

var _ Repo = (*PGRepo)(nil)
