package leads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bdengine-backend/internal/leadstore"
	"bdengine-backend/internal/shared/server/respond"
)

// Handler serves read-only browsing of ingested leads.
type Handler struct {
	Store *leadstore.Store
}

// NewHandler constructs a Handler.
func NewHandler(store *leadstore.Store) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches browse routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/partitions", h.listPartitions)
	rg.GET("/partitions/:date/leads", h.listLeads)
	rg.GET("/partitions/:date/leads/:name", h.getLead)
	rg.GET("/partitions/:date/combined", h.getCombined)
}

func (h *Handler) listPartitions(c *gin.Context) {
	partitions, err := h.Store.ListPartitions(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list partitions", nil)
		return
	}
	if partitions == nil {
		partitions = []string{}
	}
	respond.OK(c, gin.H{"partitions": partitions})
}

func (h *Handler) listLeads(c *gin.Context) {
	partition := c.Param("date")
	c.Set("partition", partition)
	names, err := h.Store.ListLeads(c.Request.Context(), partition)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list leads", nil)
		return
	}
	if names == nil {
		names = []string{}
	}
	respond.OK(c, gin.H{"partition": partition, "leads": names})
}

func (h *Handler) getLead(c *gin.Context) {
	ref := leadstore.Ref{Partition: c.Param("date"), Name: c.Param("name")}
	c.Set("partition", ref.Partition)
	c.Set("leadName", ref.Name)

	var raw json.RawMessage
	if err := h.Store.ReadJSON(c.Request.Context(), ref, leadstore.ArtifactLead, &raw); err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "lead not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read lead", nil)
		return
	}
	respond.OK(c, raw)
}

func (h *Handler) getCombined(c *gin.Context) {
	partition := c.Param("date")
	c.Set("partition", partition)
	rows, err := h.Store.ReadCombinedCSV(c.Request.Context(), partition)
	if err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "combined summary not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read combined summary", nil)
		return
	}
	respond.OK(c, gin.H{"partition": partition, "rows": rows})
}
