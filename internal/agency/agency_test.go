package agency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bdengine-backend/internal/llm"
	"bdengine-backend/internal/shared/storage/object/local"
)

type fakeLLM struct {
	reply     string
	err       error
	gotPrompt string
}

func (f *fakeLLM) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	if len(req.Messages) > 0 {
		f.gotPrompt = req.Messages[0].Content
	}
	return f.reply, f.err
}

func TestExtractTextDropsChrome(t *testing.T) {
	page := `<html><head><style>.x{}</style><script>var a=1;</script></head>
<body><nav>Home About</nav><h1>Full-funnel marketing</h1><p>Performance and creative.</p>
<footer>Copyright</footer></body></html>`

	text := ExtractText(page)
	if !strings.Contains(text, "Full-funnel marketing") || !strings.Contains(text, "Performance and creative.") {
		t.Fatalf("content missing: %q", text)
	}
	for _, dropped := range []string{"var a=1", "Home About", "Copyright", ".x{}"} {
		if strings.Contains(text, dropped) {
			t.Fatalf("text should drop %q: %q", dropped, text)
		}
	}
}

func TestRefreshPersistsProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>Award-winning digital campaigns.</p></body></html>"))
	}))
	t.Cleanup(server.Close)

	client := &fakeLLM{reply: "1. Performance marketing\n2. D2C brands"}
	svc := &Service{
		Store:      local.New(t.TempDir()),
		LLM:        client,
		Model:      "gpt-4",
		AgencyName: "Team Pumpkin",
		SiteURLs:   []string{server.URL},
	}

	profile, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !strings.Contains(profile, "Performance marketing") {
		t.Fatalf("profile = %q", profile)
	}
	if !strings.Contains(client.gotPrompt, "Award-winning digital campaigns.") {
		t.Fatal("prompt should include scraped content")
	}

	stored, err := svc.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile read: %v", err)
	}
	if stored != profile {
		t.Fatalf("stored profile %q != returned %q", stored, profile)
	}
}

func TestRefreshSkipsFailedPages(t *testing.T) {
	okServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<p>Media planning experts.</p>"))
	}))
	t.Cleanup(okServer.Close)
	badServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(badServer.Close)

	svc := &Service{
		Store:      local.New(t.TempDir()),
		LLM:        &fakeLLM{reply: "summary"},
		Model:      "gpt-4",
		AgencyName: "Team Pumpkin",
		SiteURLs:   []string{badServer.URL, okServer.URL},
	}
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh should tolerate one failed page: %v", err)
	}
}

func TestRefreshFailsWithNoContent(t *testing.T) {
	badServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(badServer.Close)

	svc := &Service{
		Store:      local.New(t.TempDir()),
		LLM:        &fakeLLM{},
		Model:      "gpt-4",
		AgencyName: "Team Pumpkin",
		SiteURLs:   []string{badServer.URL},
	}
	if _, err := svc.Refresh(context.Background()); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestProfileMissing(t *testing.T) {
	svc := &Service{Store: local.New(t.TempDir())}
	if _, err := svc.Profile(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
