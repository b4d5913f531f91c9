package applications

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/candidates"
	"resume-screener/internal/jobs"
	"resume-screener/internal/resumes"
	"resume-screener/internal/shared/auth"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/server/respond"
	"resume-screener/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc      *Service
	MaxBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxBytes int64) *Handler {
	return &Handler{Svc: svc, MaxBytes: maxBytes}
}

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	hrOnly := middleware.RequireRole(auth.RoleHR)
	rg.POST("/applications", h.submit)
	rg.GET("/applications/log", hrOnly, h.listLog)
	rg.POST("/applications/log/rebuild", hrOnly, h.rebuildLog)
	rg.GET("/applications/:id", h.get)
	rg.PATCH("/applications/:id/status", hrOnly, h.review)
	rg.GET("/candidates/:id/applications", h.listForCandidate)
	rg.GET("/jobs/:id/applications", hrOnly, h.listForJob)
}

func (h *Handler) submit(c *gin.Context) {
	if h.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes+(1<<20))
	}

	candidateID := strings.TrimSpace(c.PostForm("candidateId"))
	jobID := strings.TrimSpace(c.PostForm("jobId"))
	if candidateID == "" || jobID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "candidateId and jobId are required", nil)
		return
	}
	if !h.allowCandidate(c, candidateID) {
		return
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		if resumes.IsBodyTooLarge(err) {
			resumes.WriteUploadError(c, resumes.ErrTooLarge)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	app, err := h.Svc.Submit(c.Request.Context(), SubmitInput{
		CandidateID:    candidateID,
		JobID:          jobID,
		CoverLetter:    c.PostForm("coverLetter"),
		ResumeFileName: fileHeader.Filename,
		Resume:         file,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("applicationId", app.ID)
	telemetry.Info("application.submitted", map[string]any{
		"application_id": app.ID,
		"candidate_id":   app.CandidateID,
		"job_id":         app.JobID,
	})
	respond.JSON(c, http.StatusCreated, toResponse(app))
}

func (h *Handler) get(c *gin.Context) {
	app, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !h.allowCandidate(c, app.CandidateID) {
		return
	}
	respond.OK(c, toResponse(app))
}

func (h *Handler) listForCandidate(c *gin.Context) {
	candidateID := c.Param("id")
	if !h.allowCandidate(c, candidateID) {
		return
	}
	apps, err := h.Svc.ListForCandidate(c.Request.Context(), candidateID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponses(apps))
}

func (h *Handler) listForJob(c *gin.Context) {
	apps, err := h.Svc.ListForJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponses(apps))
}

func (h *Handler) review(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "status is required", nil)
		return
	}
	next, err := ParseStatus(req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	id := c.Param("id")
	c.Set("applicationId", id)
	app, prev, err := h.Svc.Review(c.Request.Context(), id, next)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("statusTransition", string(prev)+"->"+string(app.Status))
	respond.OK(c, toResponse(app))
}

func (h *Handler) listLog(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer", nil)
			return
		}
		limit = n
	}
	entries, err := h.Svc.ListLog(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]LogEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toLogResponse(e))
	}
	respond.OK(c, resp)
}

func (h *Handler) rebuildLog(c *gin.Context) {
	n, err := h.Svc.RebuildLog(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	telemetry.Info("application_log.rebuilt", map[string]any{"entries": n})
	respond.OK(c, gin.H{"entries": n})
}

// allowCandidate restricts candidate callers to their own applications.
func (h *Handler) allowCandidate(c *gin.Context, candidateID string) bool {
	if !middleware.CanAccessCandidate(c, candidateID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "candidates may only access their own applications", nil)
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidScore):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, resumes.ErrInvalidInput), errors.Is(err, resumes.ErrTooLarge):
		resumes.WriteUploadError(c, err)
	case errors.Is(err, ErrReference):
		respond.Error(c, http.StatusUnprocessableEntity, "reference_error", "candidate or job does not exist", nil)
	case errors.Is(err, ErrJobClosed):
		respond.Error(c, http.StatusConflict, "job_closed", ErrJobClosed.Error(), nil)
	case errors.Is(err, ErrDuplicate):
		respond.Error(c, http.StatusConflict, "conflict", ErrDuplicate.Error(), nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, "invalid_transition", ErrInvalidTransition.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
	case errors.Is(err, candidates.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
	case errors.Is(err, jobs.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process application", nil)
	}
}
