package jobdesc

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/auth"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/server/respond"
	"resume-screener/internal/shared/telemetry"
)

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	hrOnly := middleware.RequireRole(auth.RoleHR)
	rg.PUT("/job-description", hrOnly, h.upload)
	rg.GET("/job-description", hrOnly, h.get)
}

func (h *Handler) upload(c *gin.Context) {
	if h.Store.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Store.MaxBytes+(1<<20))
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(c, ErrTooLarge)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	meta, err := h.Store.Put(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		writeError(c, err)
		return
	}
	telemetry.Info("job_description.uploaded", map[string]any{
		"file_name":  meta.FileName,
		"size_bytes": meta.SizeBytes,
	})
	respond.OK(c, gin.H{"message": "Job description uploaded", "document": meta})
}

func (h *Handler) get(c *gin.Context) {
	meta, err := h.Store.Metadata(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, meta)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "no_job_description", "no job description uploaded", nil)
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file exceeds the upload limit", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store job description", nil)
	}
}
