package persona

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bdengine-backend/internal/leadstore"
	"bdengine-backend/internal/llm"
	"bdengine-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the persona service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches persona routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/partitions/:date/leads/:name/persona", h.get)
	rg.POST("/partitions/:date/leads/:name/persona", h.synthesize)
}

func (h *Handler) get(c *gin.Context) {
	ref := refFromPath(c)
	p, err := h.Svc.Get(c.Request.Context(), ref)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "persona not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read persona", nil)
		return
	}
	respond.OK(c, p)
}

func (h *Handler) synthesize(c *gin.Context) {
	ref := refFromPath(c)
	p, err := h.Svc.Synthesize(c.Request.Context(), ref)
	if err != nil {
		switch {
		case errors.Is(err, ErrLeadNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "lead not found", nil)
		case errors.Is(err, ErrAlreadyExists):
			respond.Error(c, http.StatusConflict, "already_exists", "persona already exists", nil)
		case errors.Is(err, ErrGenerating):
			respond.Error(c, http.StatusConflict, "in_progress", "persona generation in progress", nil)
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "config_error", "llm provider not configured", nil)
		case errors.Is(err, ErrGenerationFailed):
			respond.Error(c, http.StatusBadGateway, "generation_failed", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to synthesize persona", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, p)
}

func refFromPath(c *gin.Context) leadstore.Ref {
	ref := leadstore.Ref{
		Partition: c.Param("date"),
		Name:      c.Param("name"),
	}
	c.Set("partition", ref.Partition)
	c.Set("leadName", ref.Name)
	return ref
}
