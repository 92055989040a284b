package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"bdengine-backend/internal/agency"
	"bdengine-backend/internal/catalog"
	"bdengine-backend/internal/chat"
	"bdengine-backend/internal/ingest"
	"bdengine-backend/internal/integration/apollo"
	"bdengine-backend/internal/integration/relevance"
	"bdengine-backend/internal/leads"
	"bdengine-backend/internal/leadstore"
	"bdengine-backend/internal/llm"
	openai "bdengine-backend/internal/llm/openai"
	"bdengine-backend/internal/outreach"
	"bdengine-backend/internal/persona"
	"bdengine-backend/internal/shared/config"
	"bdengine-backend/internal/shared/server"
	"bdengine-backend/internal/shared/storage/db"
	"bdengine-backend/internal/shared/storage/object"
	localstore "bdengine-backend/internal/shared/storage/object/local"
	s3store "bdengine-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	LeadStore   *leadstore.Store
	CatalogRepo catalog.Repo

	IngestService   *ingest.Service
	PersonaService  *persona.Service
	OutreachService *outreach.Service
	ChatService     *chat.Service
	CatalogService  *catalog.Service
	AgencyService   *agency.Service
}

// Build prepares dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB := buildDB(ctx, cfg)

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		LeadStore: leadstore.New(store),
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		IngestHandler:   ingest.NewHandler(app.IngestService),
		BrowseHandler:   leads.NewHandler(app.LeadStore),
		PersonaHandler:  persona.NewHandler(app.PersonaService),
		OutreachHandler: outreach.NewHandler(app.OutreachService),
		ChatHandler:     chat.NewHandler(app.ChatService),
		CatalogHandler:  catalog.NewHandler(app.CatalogService),
		AgencyHandler:   agency.NewHandler(app.AgencyService),
	})

	return app, nil
}

// buildDB connects Postgres when configured; catalog storage falls back to
// file or memory repos otherwise.
func buildDB(ctx context.Context, cfg config.Config) *sql.DB {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil
	}
	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("bootstrap: database connect failed; using file catalog: %v", err)
		return nil
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("bootstrap: migrations failed; using file catalog: %v", err)
		return nil
	}
	return sqlDB
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		bucket := cfg.S3Bucket
		if strings.TrimSpace(bucket) == "" {
			bucket = cfg.LeadsBucket
		}
		return s3store.New(ctx, cfg.AWSRegion, bucket, cfg.S3Prefix)
	default:
		return localstore.New(filepath.Join(cfg.LocalStoreDir, cfg.LeadsBucket)), nil
	}
}

func buildCatalogRepo(app *App) catalog.Repo {
	if app.DB != nil {
		return &catalog.PGRepo{DB: app.DB}
	}
	fileRepo, err := catalog.NewFileRepo(app.Config.CatalogCSVPath, app.Config.CatalogJSONPath)
	if err != nil {
		log.Printf("bootstrap: catalog file load failed; using empty in-memory catalog: %v", err)
		return catalog.NewMemoryRepo(nil)
	}
	return fileRepo
}

func buildServices(app *App) error {
	cfg := app.Config

	llmClient := llm.Client(llm.PlaceholderClient{})
	if cfg.LLMProvider == "openai" {
		openaiClient, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
		if err != nil {
			return err
		}
		llmClient = openaiClient
	}

	var posts persona.PostFetcher
	if strings.TrimSpace(cfg.RelevanceAgentID) != "" && strings.TrimSpace(cfg.RelevanceToken) != "" {
		posts = relevance.NewClient(cfg.RelevanceBaseURL, cfg.RelevanceAgentID, cfg.RelevanceToken)
	}

	app.CatalogRepo = buildCatalogRepo(app)

	app.IngestService = &ingest.Service{
		Store:   app.LeadStore,
		Scraper: apollo.NewClient(cfg.ScraperURL, cfg.ScraperToken),
	}
	app.PersonaService = &persona.Service{
		Store: app.LeadStore,
		Posts: posts,
		LLM:   llmClient,
		Model: cfg.LLMModel,
	}
	app.AgencyService = &agency.Service{
		Store:      app.Store,
		LLM:        llmClient,
		Model:      cfg.LLMModel,
		AgencyName: cfg.AgencyName,
		SiteURLs:   cfg.AgencySiteURLs,
	}
	app.OutreachService = &outreach.Service{
		Store:      app.LeadStore,
		Catalog:    app.CatalogRepo,
		LLM:        llmClient,
		Model:      cfg.LLMChatModel,
		AgencyName: cfg.AgencyName,
		Agency:     app.AgencyService,
	}
	app.ChatService = &chat.Service{
		Store: app.LeadStore,
		LLM:   llmClient,
		Model: cfg.LLMChatModel,
	}
	app.CatalogService = &catalog.Service{
		Repo:  app.CatalogRepo,
		LLM:   llmClient,
		Model: cfg.LLMModel,
	}

	return nil
}
