package candidates

import "time"

// Candidate is a person who may apply to job postings. Identity fields are
// immutable once created.
type Candidate struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}
