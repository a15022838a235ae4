package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lease-backend/internal/ingest"
	"lease-backend/internal/shared/server/middleware"
	"lease-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/current", h.current)
	rg.GET("/documents/:id", h.get)
	rg.GET("/documents/:id/text", h.text)
	rg.GET("/documents/:id/tables", h.tables)
}

func (h *Handler) upload(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(c.Request.Context(), sessionID, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrUnsupportedFormat):
			respond.Error(c, http.StatusBadRequest, "unsupported_format", "only PDF, DOCX and TXT files are supported", nil)
		case errors.Is(err, ingest.ErrCorruptFile):
			respond.Error(c, http.StatusBadRequest, "corrupt_file", "the file could not be read; it may be corrupt", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload size limit", nil)
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(doc))
}

func (h *Handler) current(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	doc, err := h.Svc.Current(c.Request.Context(), sessionID)
	if err != nil {
		h.respondDocErr(c, err, "failed to fetch document")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(doc))
}

func (h *Handler) get(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	doc, err := h.Svc.Get(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		h.respondDocErr(c, err, "failed to fetch document")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(doc))
}

func (h *Handler) text(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	text, err := h.Svc.Text(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		h.respondDocErr(c, err, "failed to fetch document text")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"documentId": c.Param("id"), "text": text})
}

func (h *Handler) tables(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	tables, err := h.Svc.Tables(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		h.respondDocErr(c, err, "failed to fetch document tables")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"documentId": c.Param("id"), "tables": tables})
}

func (h *Handler) list(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	docs, err := h.Svc.List(c.Request.Context(), sessionID, limit, offset)
	if err != nil {
		h.respondDocErr(c, err, "failed to list documents")
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) respondDocErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
