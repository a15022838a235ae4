package qa

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

// RegisterRoutes attaches Q&A routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/qa", h.ask)
	rg.GET("/documents/:id/qa", h.history)
}

type askRequest struct {
	DocumentID string `json:"documentId"`
	Question   string `json:"question"`
	Mode       string `json:"mode"`
}

func (h *Handler) ask(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.DocumentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "documentId is required", nil)
		return
	}

	exchange, err := h.Svc.Ask(c.Request.Context(), sessionID, req.DocumentID, req.Question, req.Mode, middleware.RequestIDFromContext(c))
	if err != nil {
		h.respondErr(c, err, "failed to answer question")
		return
	}
	respond.JSON(c, http.StatusCreated, exchange)
}

func (h *Handler) history(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	exchanges, err := h.Svc.History(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		h.respondErr(c, err, "failed to fetch history")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"documentId": c.Param("id"), "exchanges": exchanges})
}

func (h *Handler) respondErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
