package screening

import "testing"

func TestIdentityFromFileName(t *testing.T) {
	cases := []struct {
		file  string
		name  string
		email string
	}{
		{file: "jane_doe_jane@example.com_1715000000.pdf", name: "jane doe", email: "jane@example.com"},
		{file: "jane_doe_jane@example.com.pdf", name: "jane doe", email: "jane@example.com"},
		{file: "jane_doe_jane@example.com", name: "jane doe", email: "jane@example.com"},
		{file: "John_Smith_2024.docx", name: "John Smith", email: ""},
		{file: "resume.pdf", name: "resume", email: ""},
		{file: "1715000000.txt", name: "1715000000", email: ""},
		{file: "dir/a@b.io_x.txt", name: "x", email: "a@b.io"},
	}
	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			name, email := IdentityFromFileName(tc.file)
			if name != tc.name || email != tc.email {
				t.Fatalf("got (%q, %q), want (%q, %q)", name, email, tc.name, tc.email)
			}
		})
	}
}
