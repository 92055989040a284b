package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bdengine-backend/internal/leadstore"
	"bdengine-backend/internal/llm"
	"bdengine-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the chat service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/partitions/:date/leads/:name/chat", h.transcript)
	rg.POST("/partitions/:date/leads/:name/chat", h.send)
}

type sendRequest struct {
	Message string `json:"message"`
}

func (h *Handler) transcript(c *gin.Context) {
	ref := refFromPath(c)
	messages, err := h.Svc.Transcript(c.Request.Context(), ref)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"messages": messages})
}

func (h *Handler) send(c *gin.Context) {
	ref := refFromPath(c)

	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	messages, err := h.Svc.Send(c.Request.Context(), ref, req.Message)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"messages": messages})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is empty", nil)
	case errors.Is(err, ErrLeadNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "lead not found", nil)
	case errors.Is(err, ErrPersonaRequired):
		respond.Error(c, http.StatusConflict, "persona_required", "synthesize a persona before chatting", nil)
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusInternalServerError, "config_error", "llm provider not configured", nil)
	case errors.Is(err, ErrReplyFailed):
		respond.Error(c, http.StatusBadGateway, "reply_failed", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "chat request failed", nil)
	}
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
