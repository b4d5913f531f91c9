package jobs

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, title, company, location, description, requirements, active, created_at, deactivated_at`

type scanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) Create(ctx context.Context, job JobPosting) error {
	const query = `
INSERT INTO job_postings (id, title, company, location, description, requirements, active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.Description,
		job.Requirements,
		job.Active,
		job.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (JobPosting, error) {
	query := `SELECT ` + selectColumns + ` FROM job_postings WHERE id = $1`
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return JobPosting{}, ErrNotFound
		}
		return JobPosting{}, err
	}
	return job, nil
}

func (r *PGRepo) ListActive(ctx context.Context) ([]JobPosting, error) {
	query := `SELECT ` + selectColumns + ` FROM job_postings WHERE active = TRUE ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []JobPosting{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PGRepo) Deactivate(ctx context.Context, id string, at time.Time) (JobPosting, error) {
	query := `
UPDATE job_postings
SET active = FALSE, deactivated_at = COALESCE(deactivated_at, $2)
WHERE id = $1
RETURNING ` + selectColumns
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return JobPosting{}, ErrNotFound
		}
		return JobPosting{}, err
	}
	return job, nil
}

func scanJob(row scanner) (JobPosting, error) {
	var job JobPosting
	var deactivatedAt sql.NullTime
	if err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Company,
		&job.Location,
		&job.Description,
		&job.Requirements,
		&job.Active,
		&job.CreatedAt,
		&deactivatedAt,
	); err != nil {
		return JobPosting{}, err
	}
	if deactivatedAt.Valid {
		job.DeactivatedAt = &deactivatedAt.Time
	}
	return job, nil
}

var _ Repo = (*PGRepo)(nil)
