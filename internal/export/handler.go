package export

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lease-backend/internal/analyses"
	"lease-backend/internal/documents"
	"lease-backend/internal/fields"
	"lease-backend/internal/qa"
	"lease-backend/internal/shared/server/middleware"
	"lease-backend/internal/shared/server/respond"
	"lease-backend/internal/valuation"
)

// Handler serves downloadable exports of a document's analysis.
type Handler struct {
	Docs      *documents.Service
	Analyses  *analyses.Service
	QA        *qa.Service
	Valuation *valuation.Service
}

// NewHandler constructs a Handler.
func NewHandler(docs *documents.Service, an *analyses.Service, qaSvc *qa.Service, val *valuation.Service) *Handler {
	return &Handler{Docs: docs, Analyses: an, QA: qaSvc, Valuation: val}
}

// RegisterRoutes attaches export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents/:id/summary.pdf", h.summaryPDF)
	rg.GET("/documents/:id/tables.xlsx", h.tablesXLSX)
}

// summaryPDF renders the latest analysis as a PDF. Optional sections are
// selected with ?include=valuation,qa.
func (h *Handler) summaryPDF(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	documentID := c.Param("id")

	doc, err := h.Docs.Get(c.Request.Context(), sessionID, documentID)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	summary := Summary{
		FileName:    doc.FileName,
		GeneratedAt: time.Now().UTC(),
	}
	if analysis, err := h.Analyses.LatestForDocument(c.Request.Context(), sessionID, doc.ID); err == nil {
		summary.Lines = fields.Format(analysis.FieldMap)
	} else if !errors.Is(err, analyses.ErrNotFound) {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load analysis", nil)
		return
	}

	for _, include := range strings.Split(c.Query("include"), ",") {
		switch strings.TrimSpace(include) {
		case "valuation":
			result, err := h.Valuation.Estimate(c.Request.Context(), sessionID, doc.ID, middleware.RequestIDFromContext(c))
			if err != nil {
				respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute valuation", nil)
				return
			}
			summary.Valuation = result.Narrative
		case "qa":
			exchanges, err := h.QA.History(c.Request.Context(), sessionID, doc.ID)
			if err != nil {
				respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load history", nil)
				return
			}
			summary.Exchanges = exchanges
		}
	}

	data, err := RenderPDF(summary)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render summary", nil)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="summary.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *Handler) tablesXLSX(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	tables, err := h.Docs.Tables(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}

	data, err := RenderXLSX(tables)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render tables", nil)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="tables.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, documents.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export document", nil)
	}
}
