package applications

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of an application.
type Status string

const (
	StatusNew      Status = "new"
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// transitions lists the statuses an explicit review may move to.
var transitions = map[Status][]Status{
	StatusNew:      {StatusPending, StatusReviewed},
	StatusPending:  {StatusReviewed},
	StatusReviewed: {StatusAccepted, StatusRejected},
}

// ParseStatus maps raw input onto a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether a decision has been made on the application.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransition reports whether a review may move an application from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Application links a candidate to a job posting for one submission.
type Application struct {
	ID             string
	CandidateID    string
	JobID          string
	ResumeRef      string
	ResumeFileName string
	CoverLetter    string
	Status         Status
	Score          *float64
	SubmittedAt    time.Time
	UpdatedAt      time.Time
}

// Log events.
const (
	EventSubmitted = "submitted"
	EventScreened  = "screened"
	EventReviewed  = "reviewed"
	EventSnapshot  = "snapshot"
)

// LogEntry is a denormalized, append-only summary row derived from the
// relational records. It can always be rebuilt from them.
type LogEntry struct {
	Seq            int64
	ApplicationID  string
	Event          string
	CandidateName  string
	CandidateEmail string
	JobTitle       string
	Status         Status
	Score          *float64
	RecordedAt     time.Time
}
