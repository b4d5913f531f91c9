package jobdesc

import "errors"

var (
	ErrNotFound     = errors.New("no job description uploaded")
	ErrInvalidInput = errors.New("invalid job description document")
	ErrTooLarge     = errors.New("job description document too large")
	// ErrInconsistent means the stored bytes do not match their metadata.
	ErrInconsistent = errors.New("job description content does not match its metadata")
)
