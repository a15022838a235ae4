package valuation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches valuation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/valuations", h.create)
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

	result, err := h.Svc.Estimate(c.Request.Context(), sessionID, req.DocumentID, middleware.RequestIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute valuation", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, result)
}
