package candidates

import "errors"

var (
	ErrNotFound       = errors.New("candidate not found")
	ErrDuplicateEmail = errors.New("candidate email already registered")
	ErrInvalidInput   = errors.New("invalid candidate input")
)
