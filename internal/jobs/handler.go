package jobs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/auth"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	hrOnly := middleware.RequireRole(auth.RoleHR)
	rg.GET("/jobs", h.listActive)
	rg.GET("/jobs/:id", h.get)
	rg.POST("/jobs", hrOnly, h.create)
	rg.POST("/jobs/:id/deactivate", hrOnly, h.deactivate)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "title is required", nil)
		return
	}
	job, err := h.Svc.Create(c.Request.Context(), CreateInput{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Description:  req.Description,
		Requirements: req.Requirements,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(job))
}

func (h *Handler) get(c *gin.Context) {
	job, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(job))
}

func (h *Handler) listActive(c *gin.Context) {
	list, err := h.Svc.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]JobResponse, 0, len(list))
	for _, j := range list {
		resp = append(resp, toResponse(j))
	}
	respond.OK(c, resp)
}

func (h *Handler) deactivate(c *gin.Context) {
	job, err := h.Svc.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(job))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job posting not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process job posting", nil)
	}
}
