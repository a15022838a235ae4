package analyses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lease-backend/internal/fields"
	"lease-backend/internal/shared/server/middleware"
	"lease-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.create)
	rg.GET("/analyses/:id", h.get)
	rg.GET("/documents/:id/analysis", h.latestForDocument)
}

type createRequest struct {
	DocumentID string `json:"documentId"`
}

func (h *Handler) create(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.DocumentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "documentId is required", nil)
		return
	}

	analysis, err := h.Svc.Run(c.Request.Context(), sessionID, req.DocumentID, middleware.RequestIDFromContext(c))
	if err != nil {
		h.respondErr(c, err, "failed to analyze document")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(analysis))
}

func (h *Handler) get(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	analysis, err := h.Svc.Get(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		h.respondErr(c, err, "failed to fetch analysis")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(analysis))
}

func (h *Handler) latestForDocument(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	analysis, err := h.Svc.LatestForDocument(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		h.respondErr(c, err, "failed to fetch analysis")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(analysis))
}

func (h *Handler) respondErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

type analysisResponse struct {
	Analysis
	Lines []fields.Line `json:"lines"`
}

// toResponse attaches the display lines so the UI renders fields without
// re-implementing elision or ordering.
func toResponse(analysis Analysis) analysisResponse {
	return analysisResponse{
		Analysis: analysis,
		Lines:    fields.Format(analysis.FieldMap),
	}
}
