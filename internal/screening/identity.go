package screening

import (
	"path/filepath"
	"strings"
	"unicode"
)

var documentExts = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
}

// IdentityFromFileName derives a best-effort name and email from an uploaded
// file name such as "jane_doe_jane@example.com_1715000000.pdf". The base name
// is split on underscores, a trailing all-digit part is dropped, a part
// containing "@" is the email and the remaining parts form the name.
func IdentityFromFileName(fileName string) (name, email string) {
	base := filepath.Base(strings.TrimSpace(fileName))
	if ext := filepath.Ext(base); ext != "" {
		if _, ok := documentExts[strings.ToLower(ext)]; ok {
			base = strings.TrimSuffix(base, ext)
		}
	}

	parts := strings.Split(base, "_")
	if n := len(parts); n > 1 && allDigits(parts[n-1]) {
		parts = parts[:n-1]
	}

	var nameParts []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case email == "" && strings.Contains(p, "@"):
			email = p
		default:
			nameParts = append(nameParts, p)
		}
	}
	name = strings.Join(nameParts, " ")
	if name == "" && email == "" {
		name = base
	}
	return name, email
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
