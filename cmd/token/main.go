package main

// Issue a signed bearer token for an operator or a test candidate:
//   JWT_SECRET=... go run ./cmd/token -sub hr-1 -role hr -ttl 8h

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"resume-screener/internal/shared/auth"
	"resume-screener/internal/shared/config"
)

func main() {
	sub := flag.String("sub", "", "subject (user or candidate id)")
	roleFlag := flag.String("role", string(auth.RoleHR), "role: hr or candidate")
	email := flag.String("email", "", "optional email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	config.Load()

	token, err := issue(*sub, *roleFlag, *email, *ttl, time.Now())
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
}

func issue(sub, rawRole, email string, ttl time.Duration, now time.Time) (string, error) {
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return "", fmt.Errorf("-sub is required")
	}
	role, err := auth.ParseRole(rawRole)
	if err != nil {
		return "", fmt.Errorf("role %q: %w", rawRole, err)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("-ttl must be positive")
	}
	return auth.SignJWT(auth.Claims{
		Sub:   sub,
		Role:  role,
		Email: strings.TrimSpace(email),
		Iat:   now.UTC().Unix(),
		Exp:   now.Add(ttl).UTC().Unix(),
	})
}
