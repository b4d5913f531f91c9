package auth

import (
	"errors"
	"strings"
)

// Role is the closed set of principals the API distinguishes.
type Role string

const (
	RoleHR        Role = "hr"
	RoleCandidate Role = "candidate"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole maps a header value onto a Role. Matching is case-insensitive.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(RoleHR):
		return RoleHR, nil
	case string(RoleCandidate):
		return RoleCandidate, nil
	default:
		return "", ErrUnknownRole
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleHR || r == RoleCandidate
}

func (r Role) String() string {
	return string(r)
}
