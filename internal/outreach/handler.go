package outreach

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bdengine-backend/internal/leadstore"
	"bdengine-backend/internal/llm"
	"bdengine-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the outreach service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches outreach routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/partitions/:date/leads/:name/email", h.get)
	rg.POST("/partitions/:date/leads/:name/email", h.generate)
}

func (h *Handler) get(c *gin.Context) {
	ref := refFromPath(c)
	status, err := h.Svc.Get(c.Request.Context(), ref)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "email not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read email status", nil)
		return
	}
	respond.OK(c, status)
}

func (h *Handler) generate(c *gin.Context) {
	ref := refFromPath(c)
	status, err := h.Svc.Generate(c.Request.Context(), ref)
	if err != nil {
		switch {
		case errors.Is(err, ErrLeadNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "lead not found", nil)
		case errors.Is(err, ErrPersonaRequired):
			respond.Error(c, http.StatusConflict, "persona_required", "synthesize a persona before generating an email", nil)
		case errors.Is(err, ErrAlreadyExists):
			respond.Error(c, http.StatusConflict, "already_exists", "email already exists", nil)
		case errors.Is(err, ErrGenerating):
			respond.Error(c, http.StatusConflict, "in_progress", "email generation in progress", nil)
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "config_error", "llm provider not configured", nil)
		case errors.Is(err, ErrGenerationFailed):
			respond.Error(c, http.StatusBadGateway, "generation_failed", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate email", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, status)
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
