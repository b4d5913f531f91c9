package main

import (
	"bytes"
	"strings"
	"testing"

	"resume-screener/internal/screening"
)

func TestPrintRun(t *testing.T) {
	run := &screening.Run{
		Results: []screening.Result{
			{CandidateName: "R1", CandidateEmail: "r1@example.com", Score: 50, FileName: "R1.txt"},
			{CandidateName: "R2", Score: 16.666, FileName: "R2.pdf", Flag: screening.FlagExtractionFailed},
		},
		ExportKey: "exports/screened_candidates.xlsx",
		Warnings:  []string{"publish failed"},
	}

	var buf bytes.Buffer
	if err := printRun(&buf, run); err != nil {
		t.Fatalf("print: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"RANK", "50.00", "16.67", "r1@example.com", "export: exports/screened_candidates.xlsx", "warning: publish failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[1], "1 ") || !strings.Contains(lines[1], "R1") {
		t.Fatalf("expected R1 ranked first, got %q", lines[1])
	}
}
