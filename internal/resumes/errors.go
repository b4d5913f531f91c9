package resumes

import "errors"

var (
	ErrNotFound     = errors.New("resume document not found")
	ErrInvalidInput = errors.New("invalid resume document")
	ErrTooLarge     = errors.New("resume document too large")
)
