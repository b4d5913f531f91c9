package screening

import (
	"time"

	"resume-screener/internal/applications"
)

// State is a step of a screening run.
type State string

const (
	StateAwaitingJobDescription State = "awaiting_job_description"
	StateExtractingJobText      State = "extracting_job_text"
	StateEnumeratingCandidates  State = "enumerating_candidates"
	StateScoring                State = "scoring"
	StateRanking                State = "ranking"
	StatePersisting             State = "persisting"
	StateCompleted              State = "completed"
	StateFailed                 State = "failed"
)

// Result flags.
const (
	FlagExtractionFailed  = "extraction-failed"
	FlagUnsupportedFormat = "unsupported-format"
)

// IdentitySource tells where a result's name and email came from.
type IdentitySource string

const (
	IdentityApplication IdentitySource = "application"
	IdentityFileName    IdentitySource = "filename"
)

// Document is one résumé enumerated for a run.
type Document struct {
	FileName   string
	StorageKey string

	// Set only for résumés attached to an application.
	ApplicationID  string
	CandidateName  string
	CandidateEmail string
	Status         applications.Status
}

// Result is the screening outcome for one document.
type Result struct {
	CandidateName   string
	CandidateEmail  string
	Score           float64
	ApplicationID   string
	FileName        string
	Flag            string
	IdentitySource  IdentitySource
	MatchedKeywords []string
	MissingKeywords []string
}

// Run is one invocation of the pipeline.
type Run struct {
	ID                 string
	RequestID          string
	JobID              string
	State              State
	FailureReason      error
	JobDescriptionFile string
	Results            []Result
	PersistenceErr     error
	ExportKey          string
	Warnings           []string
	StartedAt          time.Time
	CompletedAt        time.Time
}

// Failed reports whether the run stopped before producing results.
func (r *Run) Failed() bool {
	return r.State == StateFailed
}
