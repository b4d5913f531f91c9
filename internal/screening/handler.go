package screening

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/export"
	"resume-screener/internal/jobs"
	"resume-screener/internal/shared/auth"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/server/respond"
	"resume-screener/internal/shared/telemetry"
)

const exportPath = "/api/v1/screenings/export"

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
	// ScreenLimit throttles run requests. Nil means unlimited.
	ScreenLimit gin.HandlerFunc
}

func NewHandler(svc *Service, screenLimit gin.HandlerFunc) *Handler {
	return &Handler{Svc: svc, ScreenLimit: screenLimit}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	hrOnly := middleware.RequireRole(auth.RoleHR)
	screen := []gin.HandlerFunc{hrOnly}
	if h.ScreenLimit != nil {
		screen = append(screen, h.ScreenLimit)
	}
	screen = append(screen, h.screen)

	rg.POST("/screenings", screen...)
	rg.GET("/screenings/export", hrOnly, h.download)
	rg.GET("/screenings/:id", hrOnly, h.get)
}

func (h *Handler) screen(c *gin.Context) {
	var req screenRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	run, err := h.Svc.Screen(c.Request.Context(), strings.TrimSpace(req.JobID), middleware.RequestIDFromContext(c))
	if run != nil {
		c.Set("runId", run.ID)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toRunResponse(run, exportPath))
}

func (h *Handler) get(c *gin.Context) {
	run, err := h.Svc.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("runId", run.ID)
	respond.OK(c, toRunResponse(run, exportPath))
}

func (h *Handler) download(c *gin.Context) {
	rc, err := h.Svc.OpenExport(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", `attachment; filename="screened_candidates.xlsx"`)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Error("screening.export_download_failed", map[string]any{"err": err.Error()})
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoJobDescription):
		respond.Error(c, http.StatusBadRequest, "no_job_description", "No job description uploaded", nil)
	case errors.Is(err, ErrJobExtraction):
		respond.Error(c, http.StatusUnprocessableEntity, "job_description_unreadable", err.Error(), nil)
	case errors.Is(err, ErrNoCandidates):
		respond.Error(c, http.StatusBadRequest, "no_candidates", "No resumes uploaded", nil)
	case errors.Is(err, jobs.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	case errors.Is(err, ErrRunNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", ErrRunNotFound.Error(), nil)
	case errors.Is(err, export.ErrNoExport):
		respond.Error(c, http.StatusNotFound, "no_results", "No results available", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "screening failed", nil)
	}
}
