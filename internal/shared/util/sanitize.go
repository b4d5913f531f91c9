package util

import (
	"errors"
	"strings"
)

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

// SanitizeNamespace validates a slash-separated key prefix such as
// "resumes" or "applications/<candidate>".
func SanitizeNamespace(ns string) (string, error) {
	parts := strings.Split(strings.Trim(strings.TrimSpace(ns), "/"), "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == "." || p == ".." || strings.Contains(p, "\\") {
			return "", errors.New("invalid namespace")
		}
		out = append(out, p)
	}
	return strings.Join(out, "/"), nil
}
