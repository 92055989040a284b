package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bdengine-backend/internal/agency"
	"bdengine-backend/internal/catalog"
	"bdengine-backend/internal/chat"
	"bdengine-backend/internal/ingest"
	"bdengine-backend/internal/leads"
	"bdengine-backend/internal/outreach"
	"bdengine-backend/internal/persona"
	"bdengine-backend/internal/shared/config"
	"bdengine-backend/internal/shared/metrics"
	"bdengine-backend/internal/shared/server/middleware"
	"bdengine-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config          config.Config
	IngestHandler   *ingest.Handler
	BrowseHandler   *leads.Handler
	PersonaHandler  *persona.Handler
	OutreachHandler *outreach.Handler
	ChatHandler     *chat.Handler
	CatalogHandler  *catalog.Handler
	AgencyHandler   *agency.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.IngestHandler.RegisterRoutes(api)
	deps.BrowseHandler.RegisterRoutes(api)
	deps.PersonaHandler.RegisterRoutes(api)
	deps.OutreachHandler.RegisterRoutes(api)
	deps.ChatHandler.RegisterRoutes(api)
	deps.CatalogHandler.RegisterRoutes(api)
	deps.AgencyHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
