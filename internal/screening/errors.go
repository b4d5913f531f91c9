package screening

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoJobDescription = errors.New("no job description uploaded")
	ErrJobExtraction    = errors.New("job description could not be read")
	ErrNoCandidates     = errors.New("no resumes found to screen")
	ErrRunNotFound      = errors.New("screening run not found or expired")
)

// PersistenceError collects the outcome writes that failed after ranking.
// The ranked results of the run remain valid.
type PersistenceError struct {
	Failures []error
}

func (e *PersistenceError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("failed to record %d screening outcome(s): %s", len(e.Failures), strings.Join(msgs, "; "))
}

func (e *PersistenceError) Unwrap() []error {
	return e.Failures
}
