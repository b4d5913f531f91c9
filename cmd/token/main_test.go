package main

import (
	"testing"
	"time"

	"resume-screener/internal/shared/auth"
)

func TestIssue(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := issue("hr-1", "HR", "", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := auth.VerifyJWT(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Sub != "hr-1" || claims.Role != auth.RoleHR {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	tests := []struct {
		name string
		sub  string
		role string
		ttl  time.Duration
	}{
		{name: "missing sub", sub: "", role: "hr", ttl: time.Hour},
		{name: "unknown role", sub: "x", role: "admin", ttl: time.Hour},
		{name: "zero ttl", sub: "x", role: "hr", ttl: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issue(tt.sub, tt.role, "", tt.ttl, time.Now()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
