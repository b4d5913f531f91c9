package applications

import "errors"

var (
	ErrNotFound          = errors.New("application not found")
	ErrReference         = errors.New("application references an unknown candidate or job")
	ErrJobClosed         = errors.New("job posting is not accepting applications")
	ErrDuplicate         = errors.New("application already submitted at this time")
	ErrInvalidScore      = errors.New("score must be between 0 and 100")
	ErrInvalidStatus     = errors.New("invalid application status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrInvalidInput      = errors.New("invalid application input")
)
