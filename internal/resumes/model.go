package resumes

import "time"

// Source says how a résumé entered the system.
type Source string

const (
	// SourcePool is a résumé uploaded directly for screening, not tied to an application.
	SourcePool Source = "pool"
	// SourceApplication is a résumé attached to an application submission.
	SourceApplication Source = "application"
)

// Document represents a stored résumé file.
type Document struct {
	ID               string
	Source           Source
	FileName         string
	MimeType         string
	SizeBytes        int64
	Checksum         string
	StorageKey       string
	ExtractedTextKey string
	ExtractedAt      *time.Time
	CreatedAt        time.Time
}
