package bootstrap_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"bdengine-backend/internal/bootstrap"
	"bdengine-backend/internal/shared/config"
)

func newTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		LeadsBucket:     "leads",
		LLMModel:        "gpt-4",
		LLMChatModel:    "gpt-4-turbo",
		AgencyName:      "Team Pumpkin",
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func doRequest(t *testing.T, app *bootstrap.App, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func TestHealthRoute(t *testing.T) {
	app := newTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/api/v1/health", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("health = %d", resp.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	app := newTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/metrics", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("metrics = %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "ingest_runs_total") {
		t.Fatalf("metrics body missing counters: %s", resp.Body.String())
	}
}

func TestIngestRejectsEmptyQuery(t *testing.T) {
	app := newTestApp(t)
	resp := doRequest(t, app, http.MethodPost, "/api/v1/ingest", `{}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("ingest = %d, body %s", resp.Code, resp.Body.String())
	}
}

func TestPersonaMissingLead(t *testing.T) {
	app := newTestApp(t)
	resp := doRequest(t, app, http.MethodPost, "/api/v1/partitions/2026-08-30/leads/Nobody/persona", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("persona = %d, body %s", resp.Code, resp.Body.String())
	}
}

func TestEmailMissingLead(t *testing.T) {
	app := newTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/api/v1/partitions/2026-08-30/leads/Nobody/email", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("email = %d", resp.Code)
	}
}

func TestPartitionsListEmpty(t *testing.T) {
	app := newTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/api/v1/partitions", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("partitions = %d", resp.Code)
	}
	var body struct {
		Partitions []string `json:"partitions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Partitions) != 0 {
		t.Fatalf("partitions = %v", body.Partitions)
	}
}

func TestCatalogListEmptyWithoutSource(t *testing.T) {
	app := newTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/api/v1/catalog", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("catalog = %d", resp.Code)
	}
	var body struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 0 {
		t.Fatalf("count = %d", body.Count)
	}
}

func TestAgencyProfileMissing(t *testing.T) {
	app := newTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/api/v1/agency/profile", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("agency profile = %d", resp.Code)
	}
}
