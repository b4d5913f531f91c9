package jobdesc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/auth"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/storage/object"
	localstore "resume-screener/internal/shared/storage/object/local"
	"resume-screener/internal/shared/telemetry"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return &Store{
		Objects:  localstore.New(t.TempDir()),
		MaxBytes: 64,
		Now:      func() time.Time { return time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC) },
	}
}

func TestStoreEmptySlot(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Snapshot(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Metadata(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStorePutReplacesSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Put(ctx, "first.txt", strings.NewReader("python developer")); err != nil {
		t.Fatalf("put: %v", err)
	}
	meta, err := s.Put(ctx, "second.txt", strings.NewReader("go engineer"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if meta.SizeBytes != int64(len("go engineer")) || len(meta.Checksum) != 64 {
		t.Fatalf("unexpected metadata %+v", meta)
	}

	doc, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if doc.FileName != "second.txt" || string(doc.Data) != "go engineer" {
		t.Fatalf("expected second upload, got %s %q", doc.FileName, doc.Data)
	}
	if !doc.UploadedAt.Equal(meta.UploadedAt) {
		t.Fatalf("uploadedAt mismatch: %v vs %v", doc.UploadedAt, meta.UploadedAt)
	}
}

func TestStorePutValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name string
		file string
		body string
		want error
	}{
		{name: "empty", file: "jd.txt", body: "", want: ErrInvalidInput},
		{name: "no name", file: " ", body: "x", want: ErrInvalidInput},
		{name: "too large", file: "jd.txt", body: strings.Repeat("a", 65), want: ErrTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Put(ctx, tc.file, strings.NewReader(tc.body)); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

// metaFailingStore fails every metadata write once armed.
type metaFailingStore struct {
	object.ObjectStore
	fail bool
}

func (m *metaFailingStore) SaveWithKey(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	if m.fail && key == metaKey {
		return 0, errors.New("disk full")
	}
	return m.ObjectStore.SaveWithKey(ctx, key, contentType, r)
}

func TestStorePutKeepsPreviousDocumentWhenMetadataFails(t *testing.T) {
	ctx := context.Background()

	t.Run("previous document restored", func(t *testing.T) {
		objects := &metaFailingStore{ObjectStore: localstore.New(t.TempDir())}
		s := &Store{Objects: objects, MaxBytes: 64}
		if _, err := s.Put(ctx, "first.txt", strings.NewReader("python developer")); err != nil {
			t.Fatalf("put: %v", err)
		}
		objects.fail = true
		if _, err := s.Put(ctx, "second.txt", strings.NewReader("go engineer")); err == nil {
			t.Fatal("expected metadata write failure")
		}
		doc, err := s.Snapshot(ctx)
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		if doc.FileName != "first.txt" || string(doc.Data) != "python developer" {
			t.Fatalf("expected first upload intact, got %s %q", doc.FileName, doc.Data)
		}
	})

	t.Run("empty slot stays empty", func(t *testing.T) {
		objects := &metaFailingStore{ObjectStore: localstore.New(t.TempDir()), fail: true}
		s := &Store{Objects: objects, MaxBytes: 64}
		if _, err := s.Put(ctx, "first.txt", strings.NewReader("python developer")); err == nil {
			t.Fatal("expected metadata write failure")
		}
		if _, err := s.Snapshot(ctx); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := objects.Open(ctx, ContentKey); !errors.Is(err, object.ErrNotFound) {
			t.Fatalf("expected content removed, got %v", err)
		}
	})
}

func TestStoreSnapshotRejectsMismatchedContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Put(ctx, "jd.txt", strings.NewReader("python developer")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.Objects.SaveWithKey(ctx, ContentKey, "text/plain", strings.NewReader("something else")); err != nil {
		t.Fatalf("overwrite content: %v", err)
	}
	if _, err := s.Snapshot(ctx); !errors.Is(err, ErrInconsistent) {
		t.Fatalf("expected ErrInconsistent, got %v", err)
	}
}

func TestHandlerUploadAndGet(t *testing.T) {
	telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(nil) })
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Auth())
	NewHandler(newTestStore(t)).RegisterRoutes(api)

	get := func(role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/job-description", nil)
		req.Header.Set("Authorization", bearerFor(t, "u-1", role))
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp
	}
	if resp := get("hr"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if resp := get("candidate"); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "jd.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write([]byte("python developer"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/job-description", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", bearerFor(t, "u-1", "hr"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	after := get("hr")
	if after.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", after.Code)
	}
	var meta Metadata
	if err := json.NewDecoder(after.Body).Decode(&meta); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if meta.FileName != "jd.txt" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
}

func bearerFor(t *testing.T, sub, role string) string {
	t.Helper()
	token, err := auth.SignJWT(auth.Claims{Sub: sub, Role: auth.Role(role)})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}
