package ingest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bdengine-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the ingestion service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches ingestion routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ingest", h.run)
}

type runRequest struct {
	Locations  []string `json:"locations"`
	Businesses []string `json:"businesses"`
	JobTitles  []string `json:"job_titles"`
}

func (h *Handler) run(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	result, err := h.Svc.Run(c.Request.Context(), Request{
		Locations:  req.Locations,
		Businesses: req.Businesses,
		JobTitles:  req.JobTitles,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "at least one search term is required", nil)
		default:
			respond.Error(c, http.StatusBadGateway, "scrape_failed", err.Error(), nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"runId":     result.RunID,
		"partition": result.Partition,
		"searchUrl": result.SearchURL,
		"leads":     result.Leads,
		"count":     result.Count,
	})
}
