package outreach

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bdengine-backend/internal/catalog"
	"bdengine-backend/internal/leads"
	"bdengine-backend/internal/leadstore"
	"bdengine-backend/internal/llm"
	"bdengine-backend/internal/persona"
	"bdengine-backend/internal/shared/storage/object/local"
)

type fakeLLM struct {
	reply     string
	err       error
	gotPrompt string
	calls     int
}

func (f *fakeLLM) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	f.calls++
	if len(req.Messages) > 0 {
		f.gotPrompt = req.Messages[len(req.Messages)-1].Content
	}
	return f.reply, f.err
}

func testCatalog() catalog.Repo {
	return catalog.NewMemoryRepo([]catalog.CaseStudy{
		{DeckName: "FMCG Deck", DeckURL: "https://decks/fmcg", DeckSummary: "FMCG wins", Tags: "fmcg"},
		{DeckName: "D2C Deck", DeckURL: "https://decks/d2c", DeckSummary: "D2C wins", Tags: "d2c"},
	})
}

func newTestService(t *testing.T, client llm.Client) (*Service, *leadstore.Store) {
	t.Helper()
	store := leadstore.New(local.New(t.TempDir()))
	svc := &Service{
		Store:      store,
		Catalog:    testCatalog(),
		LLM:        client,
		Model:      "gpt-4-turbo",
		AgencyName: "Team Pumpkin",
		Now:        func() time.Time { return time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC) },
	}
	return svc, store
}

func seedLeadAndPersona(t *testing.T, store *leadstore.Store, ref leadstore.Ref) {
	t.Helper()
	ctx := context.Background()
	lead := leads.Lead{
		FirstName: "Jane",
		LastName:  "Doe",
		EmploymentHistory: []leads.Employment{
			{Current: true, OrganizationName: "Acme", Title: "VP Marketing"},
		},
	}
	if err := store.WriteJSON(ctx, ref, leadstore.ArtifactLead, lead); err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	p := persona.Persona{PersonaType: "Visionary", CommunicationStyle: "direct"}
	if err := store.WriteJSON(ctx, ref, leadstore.ArtifactPersona, p); err != nil {
		t.Fatalf("seed persona: %v", err)
	}
}

func TestGeneratePersistsEmail(t *testing.T) {
	client := &fakeLLM{reply: `{"deck_chosen": "FMCG Deck", "subject": "Quick idea", "body": "Hi Jane, short pitch."}`}
	svc, store := newTestService(t, client)
	ref := leadstore.Ref{Partition: "2026-08-30", Name: "Jane Doe"}
	seedLeadAndPersona(t, store, ref)

	status, err := svc.Generate(context.Background(), ref)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if status.Status != "cold" {
		t.Fatalf("status = %q", status.Status)
	}
	if status.RecommendedDeck != "FMCG Deck" || status.DeckURL != "https://decks/fmcg" {
		t.Fatalf("deck fields = %+v", status)
	}
	if status.GeneratedOn != "2026-08-30 10:30:00" {
		t.Fatalf("generated_on = %q", status.GeneratedOn)
	}
	if !strings.Contains(client.gotPrompt, "FMCG Deck") || !strings.Contains(client.gotPrompt, "Team Pumpkin") {
		t.Fatal("prompt should include the catalog and agency name")
	}

	text, err := store.ReadText(context.Background(), ref, leadstore.ArtifactColdEmail)
	if err != nil {
		t.Fatalf("cold_email.txt: %v", err)
	}
	if text != "Hi Jane, short pitch." {
		t.Fatalf("cold_email.txt = %q", text)
	}
}

func TestGenerateMatchesDeckLoosely(t *testing.T) {
	client := &fakeLLM{reply: `{"deck_chosen": "  fmcg deck  ", "subject": "s", "body": "b"}`}
	svc, store := newTestService(t, client)
	ref := leadstore.Ref{Partition: "2026-08-30", Name: "Jane Doe"}
	seedLeadAndPersona(t, store, ref)

	status, err := svc.Generate(context.Background(), ref)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if status.RecommendedDeck != "FMCG Deck" {
		t.Fatalf("recommended_deck = %q", status.RecommendedDeck)
	}
	if status.DeckURL != "https://decks/fmcg" || status.DeckSummary != "FMCG wins" {
		t.Fatalf("deck fields = %+v", status)
	}
}

func TestGenerateUnknownDeckResolvesNotFound(t *testing.T) {
	client := &fakeLLM{reply: `{"deck_chosen": "Imaginary Deck", "subject": "s", "body": "b"}`}
	svc, store := newTestService(t, client)
	ref := leadstore.Ref{Partition: "2026-08-30", Name: "Jane Doe"}
	seedLeadAndPersona(t, store, ref)

	status, err := svc.Generate(context.Background(), ref)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if status.RecommendedDeck != "Imaginary Deck" {
		t.Fatalf("recommended_deck = %q", status.RecommendedDeck)
	}
	if status.DeckURL != "Not found" || status.DeckSummary != "Not found" {
		t.Fatalf("deck fields = %+v", status)
	}
}

func TestGenerateRequiresPersona(t *testing.T) {
	svc, store := newTestService(t, &fakeLLM{})
	ref := leadstore.Ref{Partition: "2026-08-30", Name: "Jane Doe"}
	lead := leads.Lead{FirstName: "Jane", LastName: "Doe"}
	if err := store.WriteJSON(context.Background(), ref, leadstore.ArtifactLead, lead); err != nil {
		t.Fatalf("seed lead: %v", err)
	}

	if _, err := svc.Generate(context.Background(), ref); !errors.Is(err, ErrPersonaRequired) {
		t.Fatalf("expected ErrPersonaRequired, got %v", err)
	}
}

func TestGenerateIsAtMostOnce(t *testing.T) {
	client := &fakeLLM{reply: `{"deck_chosen": "D2C Deck", "subject": "s", "body": "b"}`}
	svc, store := newTestService(t, client)
	ref := leadstore.Ref{Partition: "2026-08-30", Name: "Jane Doe"}
	seedLeadAndPersona(t, store, ref)

	if _, err := svc.Generate(context.Background(), ref); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if _, err := svc.Generate(context.Background(), ref); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("second generate = %v, want ErrAlreadyExists", err)
	}
	if client.calls != 1 {
		t.Fatalf("llm called %d times, want 1", client.calls)
	}
}
