package candidates

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
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates", h.create)
	rg.GET("/candidates/:id", h.get)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "name and a valid email are required", nil)
		return
	}
	cand, err := h.Svc.Create(c.Request.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := createResponse{CandidateResponse: toResponse(cand)}
	token, err := auth.SignJWT(auth.Claims{Sub: cand.ID, Role: auth.RoleCandidate, Email: cand.Email, Name: cand.Name})
	if err != nil {
		telemetry.Error("candidate.token_failed", map[string]any{"candidate_id": cand.ID, "err": err.Error()})
	} else {
		resp.Token = token
	}
	respond.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	if !middleware.CanAccessCandidate(c, id) {
		respond.Error(c, http.StatusForbidden, "forbidden", "candidates may only access their own record", nil)
		return
	}
	cand, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(cand))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrDuplicateEmail):
		respond.Error(c, http.StatusConflict, "conflict", "email already registered", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process candidate", nil)
	}
}
