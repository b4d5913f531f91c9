package applications

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/auth"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/telemetry"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(nil) })

	t.Setenv("JWT_SECRET", "test-secret")
	svc, _ := newTestService(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Auth())
	NewHandler(svc, 1024).RegisterRoutes(api)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileName != "" {
		part, err := w.CreateFormFile("resume", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func do(t *testing.T, r *gin.Engine, req *http.Request, userID, role string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.SignJWT(auth.Claims{Sub: userID, Role: auth.Role(role)})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func submit(t *testing.T, r *gin.Engine, userID, role, candidateID, jobID string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, map[string]string{"candidateId": candidateID, "jobId": jobID}, "cv.txt", "python developer")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
	req.Header.Set("Content-Type", contentType)
	return do(t, r, req, userID, role)
}

func TestHandlerSubmitAndReview(t *testing.T) {
	r := newTestRouter(t)

	resp := submit(t, r, "cand-1", "candidate", "cand-1", "job-1")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created ApplicationResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Status != StatusNew || created.ResumeFileName != "cv.txt" {
		t.Fatalf("unexpected application %+v", created)
	}

	patch := func(status string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/applications/"+created.ID+"/status", strings.NewReader(`{"status":"`+status+`"}`))
		req.Header.Set("Content-Type", "application/json")
		return do(t, r, req, "hr-1", "hr")
	}
	if got := patch("accepted"); got.Code != http.StatusConflict {
		t.Fatalf("expected 409 for new->accepted, got %d", got.Code)
	}
	if got := patch("unknown"); got.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", got.Code)
	}
	if got := patch("reviewed"); got.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", got.Code, got.Body.String())
	}

	log := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/applications/log?limit=10", nil), "hr-1", "hr")
	if log.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", log.Code)
	}
	var entries []LogEntryResponse
	if err := json.NewDecoder(log.Body).Decode(&entries); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	if len(entries) != 2 || entries[0].Event != EventReviewed {
		t.Fatalf("unexpected log %+v", entries)
	}
}

func TestHandlerSubmitErrors(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		name   string
		user   string
		role   string
		cand   string
		job    string
		status int
	}{
		{name: "unknown job", user: "hr-1", role: "hr", cand: "cand-1", job: "missing", status: http.StatusUnprocessableEntity},
		{name: "missing ids", user: "hr-1", role: "hr", cand: "", job: "job-1", status: http.StatusBadRequest},
		{name: "other candidate", user: "cand-2", role: "candidate", cand: "cand-1", job: "job-1", status: http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := submit(t, r, tc.user, tc.role, tc.cand, tc.job)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
		})
	}

	guestBody, guestType := multipartBody(t, map[string]string{"candidateId": "cand-1", "jobId": "job-1"}, "cv.txt", "python developer")
	guestReq := httptest.NewRequest(http.MethodPost, "/api/v1/applications", guestBody)
	guestReq.Header.Set("Content-Type", guestType)
	guestReq.Header.Set("X-Guest-Id", "cand-1")
	guestReq.Header.Set("X-User-Role", "hr")
	guest := httptest.NewRecorder()
	r.ServeHTTP(guest, guestReq)
	if guest.Code != http.StatusForbidden {
		t.Fatalf("expected guest submission 403, got %d", guest.Code)
	}

	body, contentType := multipartBody(t, map[string]string{"candidateId": "cand-1", "jobId": "job-1"}, "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
	req.Header.Set("Content-Type", contentType)
	if resp := do(t, r, req, "cand-1", "candidate"); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without resume, got %d", resp.Code)
	}
}

func TestHandlerRoleChecks(t *testing.T) {
	r := newTestRouter(t)

	if resp := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/applications/log", nil), "cand-1", "candidate"); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if resp := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-1/applications", nil), "cand-1", "candidate"); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if resp := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/candidates/cand-1/applications", nil), "cand-1", "candidate"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/applications/missing", nil), "hr-1", "hr"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if resp := do(t, r, httptest.NewRequest(http.MethodPost, "/api/v1/applications/log/rebuild", nil), "hr-1", "hr"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
