package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	LeadsBucket     string

	DatabaseURL string

	LLMProvider  string
	LLMModel     string
	LLMChatModel string

	ScraperURL   string
	ScraperToken string

	RelevanceBaseURL string
	RelevanceAgentID string
	RelevanceToken   string

	CatalogCSVPath  string
	CatalogJSONPath string

	AgencyName     string
	AgencySiteURLs []string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(".env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is empty; catalog imports persist in memory only")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:             env,

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		LeadsBucket:     getEnv("LEADS_BUCKET", "leads"),

		DatabaseURL: dbURL,

		LLMProvider:  getEnv("LLM_PROVIDER", "openai"),
		LLMModel:     getEnv("LLM_MODEL", "gpt-4"),
		LLMChatModel: getEnv("LLM_CHAT_MODEL", "gpt-4-turbo"),

		ScraperURL:   getEnv("SCRAPER_URL", "https://api.apify.com/v2/acts/code_crafter~apollo-io-scraper/run-sync-get-dataset-items"),
		ScraperToken: os.Getenv("SCRAPER_TOKEN"),

		RelevanceBaseURL: getEnv("RELEVANCE_BASE_URL", "https://api.tryrelevance.com/latest"),
		RelevanceAgentID: os.Getenv("RELEVANCE_AGENT_ID"),
		RelevanceToken:   os.Getenv("RELEVANCE_AUTH_TOKEN"),

		CatalogCSVPath:  getEnv("CATALOG_CSV_PATH", "case_studies.csv"),
		CatalogJSONPath: getEnv("CATALOG_JSON_PATH", "case_studies.json"),

		AgencyName:     getEnv("AGENCY_NAME", "Team Pumpkin"),
		AgencySiteURLs: splitAndTrim(os.Getenv("AGENCY_SITE_URLS")),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
