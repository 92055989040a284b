package agency

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bdengine-backend/internal/llm"
	"bdengine-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the agency service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches agency routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/agency/profile", h.get)
	rg.POST("/agency/profile", h.refresh)
}

func (h *Handler) get(c *gin.Context) {
	profile, err := h.Svc.Profile(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "agency profile not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read agency profile", nil)
		return
	}
	respond.OK(c, gin.H{"profile": profile})
}

func (h *Handler) refresh(c *gin.Context) {
	profile, err := h.Svc.Refresh(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, ErrNoContent):
			respond.Error(c, http.StatusBadGateway, "fetch_failed", "no site content could be retrieved", nil)
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "config_error", "llm provider not configured", nil)
		case errors.Is(err, ErrSummaryFailed):
			respond.Error(c, http.StatusBadGateway, "summary_failed", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to refresh agency profile", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"profile": profile})
}
