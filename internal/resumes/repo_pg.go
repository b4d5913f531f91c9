package resumes

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

const selectColumns = `id, source, file_name, mime_type, size_bytes, checksum, storage_key, extracted_text_key, extracted_at, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO resume_documents (
    id,
    source,
    file_name,
    mime_type,
    size_bytes,
    checksum,
    storage_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		string(doc.Source),
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.Checksum,
		doc.StorageKey,
		doc.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	query := `SELECT ` + selectColumns + ` FROM resume_documents WHERE id = $1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func (r *PGRepo) ListBySource(ctx context.Context, source Source) ([]Document, error) {
	query := `SELECT ` + selectColumns + ` FROM resume_documents WHERE source = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, string(source))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateExtraction(ctx context.Context, storageKey, extractedKey string, extractedAt time.Time) error {
	const query = `
UPDATE resume_documents
SET extracted_text_key = $1, extracted_at = $2
WHERE storage_key = $3 AND extracted_text_key IS NULL`
	_, err := r.DB.ExecContext(ctx, query, extractedKey, extractedAt, storageKey)
	return err
}

func scanDocument(row scanner) (Document, error) {
	var doc Document
	var source string
	var extractedKey sql.NullString
	var extractedAt sql.NullTime
	if err := row.Scan(
		&doc.ID,
		&source,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.Checksum,
		&doc.StorageKey,
		&extractedKey,
		&extractedAt,
		&doc.CreatedAt,
	); err != nil {
		return Document{}, err
	}
	doc.Source = Source(source)
	if extractedKey.Valid {
		doc.ExtractedTextKey = extractedKey.String
	}
	if extractedAt.Valid {
		doc.ExtractedAt = &extractedAt.Time
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
