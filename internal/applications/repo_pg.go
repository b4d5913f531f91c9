package applications

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"resume-screener/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres. Log rows are written in the same
// transaction as the application row they describe.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, candidate_id, job_id, resume_ref, resume_file_name, cover_letter, status, score, submitted_at, updated_at`

const insertLogQuery = `
INSERT INTO application_log (application_id, event, candidate_name, candidate_email, job_title, status, score, recorded_at)
SELECT a.id, $2::text, c.name, c.email, j.title, a.status, a.score, $3::timestamptz
FROM applications a
JOIN candidates c ON c.id = a.candidate_id
JOIN job_postings j ON j.id = a.job_id
WHERE a.id = $1`

type scanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const query = `
INSERT INTO applications (
    id,
    candidate_id,
    job_id,
    resume_ref,
    resume_file_name,
    cover_letter,
    status,
    score,
    submitted_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, $8, $9)`

	var coverLetter sql.NullString
	if app.CoverLetter != "" {
		coverLetter = sql.NullString{String: app.CoverLetter, Valid: true}
	}
	if _, err := tx.ExecContext(ctx, query,
		app.ID,
		app.CandidateID,
		app.JobID,
		app.ResumeRef,
		app.ResumeFileName,
		coverLetter,
		string(app.Status),
		app.SubmittedAt,
		app.UpdatedAt,
	); err != nil {
		switch {
		case db.IsForeignKeyViolation(err):
			return ErrReference
		case db.IsUniqueViolation(err):
			return ErrDuplicate
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, insertLogQuery, app.ID, EventSubmitted, app.SubmittedAt); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Application, error) {
	query := `SELECT ` + selectColumns + ` FROM applications WHERE id = $1`
	app, err := scanApp(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return app, nil
}

func (r *PGRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Application, error) {
	query := `SELECT ` + selectColumns + ` FROM applications WHERE candidate_id = $1 ORDER BY submitted_at ASC, id ASC`
	return r.list(ctx, query, candidateID)
}

func (r *PGRepo) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	query := `SELECT ` + selectColumns + ` FROM applications WHERE job_id = $1 ORDER BY submitted_at ASC, id ASC`
	return r.list(ctx, query, jobID)
}

func (r *PGRepo) RecordScreeningOutcome(ctx context.Context, id string, score float64, status Status, at time.Time) error {
	if err := validateOutcome(score, status); err != nil {
		return err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// A decision taken after the run enumerated this application wins.
	const query = `
UPDATE applications
SET score = $2,
    status = CASE WHEN status IN ('accepted', 'rejected') THEN status ELSE $3 END,
    updated_at = $4
WHERE id = $1`
	res, err := tx.ExecContext(ctx, query, id, score, string(status), at)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, insertLogQuery, id, EventScreened, at); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepo) Transition(ctx context.Context, id string, next Status, at time.Time) (Application, Status, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Application{}, "", err
	}
	defer tx.Rollback()

	var current string
	if err := tx.QueryRowContext(ctx, `SELECT status FROM applications WHERE id = $1 FOR UPDATE`, id).Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, "", ErrNotFound
		}
		return Application{}, "", err
	}
	prev := Status(current)
	if !prev.CanTransition(next) {
		return Application{}, prev, ErrInvalidTransition
	}

	query := `
UPDATE applications
SET status = $2, updated_at = $3
WHERE id = $1
RETURNING ` + selectColumns
	app, err := scanApp(tx.QueryRowContext(ctx, query, id, string(next), at))
	if err != nil {
		return Application{}, prev, err
	}
	if _, err := tx.ExecContext(ctx, insertLogQuery, id, EventReviewed, at); err != nil {
		return Application{}, prev, err
	}
	if err := tx.Commit(); err != nil {
		return Application{}, prev, err
	}
	return app, prev, nil
}

func (r *PGRepo) ListLog(ctx context.Context, limit int) ([]LogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	const query = `
SELECT seq, application_id, event, candidate_name, candidate_email, job_title, status, score, recorded_at
FROM application_log
ORDER BY seq DESC
LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LogEntry{}
	for rows.Next() {
		var e LogEntry
		var status string
		var score sql.NullFloat64
		if err := rows.Scan(
			&e.Seq,
			&e.ApplicationID,
			&e.Event,
			&e.CandidateName,
			&e.CandidateEmail,
			&e.JobTitle,
			&status,
			&score,
			&e.RecordedAt,
		); err != nil {
			return nil, err
		}
		e.Status = Status(status)
		if score.Valid {
			e.Score = &score.Float64
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PGRepo) RebuildLog(ctx context.Context, at time.Time) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM application_log`); err != nil {
		return 0, err
	}
	const query = `
INSERT INTO application_log (application_id, event, candidate_name, candidate_email, job_title, status, score, recorded_at)
SELECT a.id, $1::text, c.name, c.email, j.title, a.status, a.score, $2::timestamptz
FROM applications a
JOIN candidates c ON c.id = a.candidate_id
JOIN job_postings j ON j.id = a.job_id
ORDER BY a.submitted_at ASC, a.id ASC`
	res, err := tx.ExecContext(ctx, query, EventSnapshot, at)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *PGRepo) list(ctx context.Context, query string, arg string) ([]Application, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		app, err := scanApp(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func scanApp(row scanner) (Application, error) {
	var app Application
	var coverLetter sql.NullString
	var status string
	var score sql.NullFloat64
	if err := row.Scan(
		&app.ID,
		&app.CandidateID,
		&app.JobID,
		&app.ResumeRef,
		&app.ResumeFileName,
		&coverLetter,
		&status,
		&score,
		&app.SubmittedAt,
		&app.UpdatedAt,
	); err != nil {
		return Application{}, err
	}
	app.Status = Status(status)
	if coverLetter.Valid {
		app.CoverLetter = coverLetter.String
	}
	if score.Valid {
		app.Score = &score.Float64
	}
	return app, nil
}

var _ Repo = (*PGRepo)(nil)
