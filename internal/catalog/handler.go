package catalog

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"bdengine-backend/internal/llm"
	"bdengine-backend/internal/shared/server/respond"
)

const maxDeckBytes = 20 << 20

// Handler wires HTTP handlers to the catalog service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches catalog routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog", h.list)
	rg.POST("/catalog/import", h.importDeck)
}

func (h *Handler) list(c *gin.Context) {
	entries, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list catalog", nil)
		return
	}
	if entries == nil {
		entries = []CaseStudy{}
	}
	respond.OK(c, gin.H{"caseStudies": entries, "count": len(entries)})
}

func (h *Handler) importDeck(c *gin.Context) {
	deckName := c.PostForm("deck_name")
	deckURL := c.PostForm("deck_url")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "deck file is required", nil)
		return
	}
	if fileHeader.Size > maxDeckBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "deck file exceeds size limit", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to open deck file", nil)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxDeckBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read deck file", nil)
		return
	}

	cs, err := h.Svc.ImportDeck(c.Request.Context(), deckName, deckURL, data)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrAlreadyExists):
			respond.Error(c, http.StatusConflict, "already_exists", "a deck with that name already exists", nil)
		case errors.Is(err, ErrReadOnly):
			respond.Error(c, http.StatusConflict, "read_only", "catalog backend does not accept imports", nil)
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "config_error", "llm provider not configured", nil)
		default:
			respond.Error(c, http.StatusBadGateway, "import_failed", "failed to import deck", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, cs)
}
