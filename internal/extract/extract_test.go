package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	localstore "resume-screener/internal/shared/storage/object/local"
)

// buildPDF assembles a minimal uncompressed PDF with one page per entry.
// An empty entry produces a page whose content stream has no text.
func buildPDF(pages []string) []byte {
	var objects []string
	n := len(pages)
	fontID := 3 + 2*n

	kids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+2*i))
	}
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	for i, text := range pages {
		contentID := 4 + 2*i
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontID, contentID))
		stream := ""
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		}
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtractPDFPagesInOrder(t *testing.T) {
	data := buildPDF([]string{"python developer", "", "flask experience"})

	got, err := ExtractTextFromBytes(context.Background(), data, "Jane_Doe.PDF")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	text := got.Body
	first := strings.Index(text, "python developer")
	second := strings.Index(text, "flask experience")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected both pages in order, got %q", text)
	}
	if strings.Count(text, "\n") < 3 {
		t.Fatalf("expected a newline after every page, got %q", text)
	}
	if !strings.HasSuffix(text, "\n") {
		t.Fatalf("expected trailing page newline, got %q", text)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "not a pdf", data: []byte("this is not a pdf")},
		{name: "truncated", data: buildPDF([]string{"hello"})[:40]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractTextFromBytes(context.Background(), tt.data, "broken.pdf")
			if !errors.Is(err, ErrExtraction) {
				t.Fatalf("expected ErrExtraction, got %v", err)
			}
			if !strings.Contains(err.Error(), "broken.pdf") {
				t.Fatalf("expected file name in error, got %v", err)
			}
		})
	}
}

func TestExtractPlaceholders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file string
		want string
	}{
		{file: "cv.docx", want: "[text extraction not implemented for .docx: cv.docx]"},
		{file: "cv.DOC", want: "[text extraction not implemented for .doc: cv.DOC]"},
		{file: "cv.odt", want: "[unsupported document format: cv.odt]"},
		{file: "noext", want: "[unsupported document format: noext]"},
	}
	for _, tt := range tests {
		got, err := ExtractTextFromBytes(context.Background(), []byte("PK\x03\x04"), tt.file)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.file, err)
		}
		if got.Body != tt.want || !got.Placeholder {
			t.Fatalf("%s: got %+v want placeholder %q", tt.file, got, tt.want)
		}
	}
}

func TestExtractPlainText(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "ordinary", body: "Graphic designer"},
		{name: "looks like a marker", body: "[unsupported document format: cv.odt] python developer"},
		{name: "looks like a doc marker", body: "[text extraction not implemented for .docx: cv.docx]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTextFromBytes(context.Background(), []byte(tt.body), "r2.txt")
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if got.Body != tt.body || got.Placeholder {
				t.Fatalf("unexpected text %+v", got)
			}
		})
	}
}

func TestExtractTextSkipsSidecarForPlaceholders(t *testing.T) {
	ctx := context.Background()
	store := localstore.New(t.TempDir())

	key, _, _, err := store.Save(ctx, "resumes", "cv.docx", strings.NewReader("PK\x03\x04"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := ExtractText(ctx, store, key, "cv.docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !got.Placeholder {
		t.Fatalf("expected placeholder, got %+v", got)
	}
	if _, err := store.Open(ctx, SidecarKey(key)); err == nil {
		t.Fatalf("placeholder should not be cached")
	}
}

func TestExtractTextCachesSidecar(t *testing.T) {
	ctx := context.Background()
	store := localstore.New(t.TempDir())

	key, _, _, err := store.Save(ctx, "resumes", "jane.txt", strings.NewReader("python developer"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	text, err := ExtractText(ctx, store, key, "jane.txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text.Body != "python developer" || text.Placeholder {
		t.Fatalf("unexpected text %+v", text)
	}

	if _, err := store.SaveWithKey(ctx, key+".extracted.txt", "text/plain", strings.NewReader("cached copy")); err != nil {
		t.Fatalf("overwrite sidecar: %v", err)
	}
	text, err = ExtractText(ctx, store, key, "jane.txt")
	if err != nil {
		t.Fatalf("extract cached: %v", err)
	}
	if text.Body != "cached copy" {
		t.Fatalf("expected sidecar to be reused, got %+v", text)
	}
}

func TestExtractTextMissingObject(t *testing.T) {
	store := localstore.New(t.TempDir())
	if _, err := ExtractText(context.Background(), store, "resumes/missing.pdf", "missing.pdf"); err == nil {
		t.Fatalf("expected error for missing object")
	}
}
