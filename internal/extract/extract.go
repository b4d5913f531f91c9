package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"resume-screener/internal/shared/storage/object"
	"resume-screener/internal/shared/telemetry"
)

// ErrExtraction marks a document whose bytes could not be parsed.
var ErrExtraction = errors.New("text extraction failed")

const extractedSuffix = ".extracted.txt"

// Text is the result of an extraction.
type Text struct {
	Body string
	// Placeholder is set when the format has no extractor. Body then holds a
	// human-readable marker rather than document text.
	Placeholder bool
}

func placeholder(format string, args ...any) Text {
	return Text{Body: fmt.Sprintf(format, args...), Placeholder: true}
}

// ExtractText pulls text from a stored object. A derived <key>.extracted.txt
// copy is reused when present and written after a fresh extraction.
// Placeholders are never cached.
func ExtractText(ctx context.Context, store object.ObjectStore, fileKey string, fileName string) (Text, error) {
	if err := ctx.Err(); err != nil {
		return Text{}, err
	}

	extractedKey := SidecarKey(fileKey)
	if cached, err := readAll(ctx, store, extractedKey); err == nil {
		return Text{Body: cached}, nil
	}

	raw, err := readAll(ctx, store, fileKey)
	if err != nil {
		return Text{}, fmt.Errorf("extract text key=%s: %w", fileKey, err)
	}

	text, err := ExtractTextFromBytes(ctx, []byte(raw), fileName)
	if err != nil {
		return Text{}, fmt.Errorf("extract text key=%s: %w", fileKey, err)
	}
	if text.Placeholder {
		return text, nil
	}

	if _, err := store.SaveWithKey(ctx, extractedKey, "text/plain; charset=utf-8", strings.NewReader(text.Body)); err != nil {
		telemetry.Error("extract.cache.save_failed", map[string]any{
			"key": extractedKey,
			"err": err.Error(),
		})
	}
	return text, nil
}

// SidecarKey is the object key where extracted text for fileKey is cached.
func SidecarKey(fileKey string) string {
	return fileKey + extractedSuffix
}

// ExtractTextFromBytes extracts text from an in-memory payload, dispatching on
// the file extension. Formats without an extractor yield a placeholder Text
// instead of an error.
func ExtractTextFromBytes(ctx context.Context, data []byte, fileName string) (Text, error) {
	if err := ctx.Err(); err != nil {
		return Text{}, err
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".pdf":
		text, err := extractPDF(data)
		if err != nil {
			return Text{}, fmt.Errorf("%w: %s: %v", ErrExtraction, fileName, err)
		}
		return Text{Body: text}, nil
	case ".doc", ".docx":
		return placeholder("[text extraction not implemented for %s: %s]", ext, fileName), nil
	case ".txt":
		if !utf8.Valid(data) {
			return Text{Body: strings.ToValidUTF8(string(data), "\uFFFD")}, nil
		}
		return Text{Body: string(data)}, nil
	default:
		return placeholder("[unsupported document format: %s]", fileName), nil
	}
}

// extractPDF returns every page's text in order, each followed by a newline.
// The pdf library panics on some malformed inputs, so panics become errors.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()

	if len(data) == 0 {
		return "", errors.New("empty pdf data")
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if !page.V.IsNull() {
			pageText, err := page.GetPlainText(nil)
			if err != nil {
				return "", fmt.Errorf("page %d: %w", i, err)
			}
			buf.WriteString(pageText)
		}
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

func readAll(ctx context.Context, store object.ObjectStore, key string) (string, error) {
	body, err := store.Open(ctx, key)
	if err != nil {
		return "", err
	}
	defer body.Close()
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	return string(raw), nil
}
