package outreach

import (
	"context"
	"errors"
	"time"

	"bdengine-backend/internal/catalog"
	"bdengine-backend/internal/leads"
	"bdengine-backend/internal/leadstore"
	"bdengine-backend/internal/llm"
	"bdengine-backend/internal/persona"
	"bdengine-backend/internal/shared/metrics"
	"bdengine-backend/internal/shared/telemetry"
)

const (
	generationTemperature = 0.7
	generatedOnLayout     = "2006-01-02 15:04:05"

	// deckNotFound is persisted when the model names a deck outside
	// the catalog, so downstream consumers see the mismatch.
	deckNotFound = "Not found"
)

var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrPersonaRequired  = errors.New("persona required before email generation")
	ErrNotFound         = errors.New("email not found")
	ErrAlreadyExists    = errors.New("email already exists")
	ErrGenerating       = errors.New("email generation in progress")
	ErrGenerationFailed = errors.New("email generation failed")
)

// EmailStatus is the persisted outreach state for a lead.
type EmailStatus struct {
	Status          string `json:"status"`
	ColdEmail       string `json:"cold_email"`
	Subject         string `json:"subject"`
	RecommendedDeck string `json:"recommended_deck"`
	DeckURL         string `json:"deck_url"`
	DeckSummary     string `json:"deck_summary"`
	GeneratedOn     string `json:"generated_on"`
}

// AgencyProfiler returns the agency profile text used in prompts.
type AgencyProfiler interface {
	Profile(ctx context.Context) (string, error)
}

// Service generates and reads cold outreach emails.
type Service struct {
	Store      *leadstore.Store
	Catalog    catalog.Repo
	LLM        llm.Client
	Model      string
	AgencyName string
	Agency     AgencyProfiler
	Now        func() time.Time
}

// Get reads the persisted email status for a lead.
func (s *Service) Get(ctx context.Context, ref leadstore.Ref) (EmailStatus, error) {
	var status EmailStatus
	if err := s.Store.ReadJSON(ctx, ref, leadstore.ArtifactEmailStatus, &status); err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			return EmailStatus{}, ErrNotFound
		}
		return EmailStatus{}, err
	}
	return status, nil
}

// Generate drafts and persists the cold email for a lead. Generation is
// at-most-once and requires a synthesized persona.
func (s *Service) Generate(ctx context.Context, ref leadstore.Ref) (EmailStatus, error) {
	var lead leads.Lead
	if err := s.Store.ReadJSON(ctx, ref, leadstore.ArtifactLead, &lead); err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			return EmailStatus{}, ErrLeadNotFound
		}
		return EmailStatus{}, err
	}

	var p persona.Persona
	if err := s.Store.ReadJSON(ctx, ref, leadstore.ArtifactPersona, &p); err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			return EmailStatus{}, ErrPersonaRequired
		}
		return EmailStatus{}, err
	}

	if err := s.Store.ClaimArtifact(ctx, ref, leadstore.ArtifactEmailStatus); err != nil {
		switch {
		case errors.Is(err, leadstore.ErrAlreadyExists):
			return EmailStatus{}, ErrAlreadyExists
		case errors.Is(err, leadstore.ErrGenerating):
			return EmailStatus{}, ErrGenerating
		}
		return EmailStatus{}, err
	}

	status, err := s.generate(ctx, ref, lead, p)
	if err != nil {
		metrics.IncEmailFailed()
		if resolveErr := s.Store.ResolveArtifact(ctx, ref, leadstore.ArtifactEmailStatus, leadstore.StateFailed); resolveErr != nil {
			telemetry.Error("outreach.resolve_failed", map[string]any{
				"lead":  ref.String(),
				"error": resolveErr.Error(),
			})
		}
		return EmailStatus{}, err
	}

	if err := s.Store.ResolveArtifact(ctx, ref, leadstore.ArtifactEmailStatus, leadstore.StateReady); err != nil {
		return EmailStatus{}, err
	}
	metrics.IncEmailGenerated()
	return status, nil
}

func (s *Service) generate(ctx context.Context, ref leadstore.Ref, lead leads.Lead, p persona.Persona) (EmailStatus, error) {
	decks, err := s.Catalog.List(ctx)
	if err != nil {
		return EmailStatus{}, errors.Join(ErrGenerationFailed, err)
	}

	reply, err := s.LLM.Chat(ctx, llm.ChatRequest{
		Model: s.Model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: BuildPrompt(lead, p, s.AgencyName, s.agencyProfile(ctx, ref), decks)},
		},
		Temperature: generationTemperature,
		JSONOutput:  true,
	})
	if err != nil {
		return EmailStatus{}, errors.Join(ErrGenerationFailed, err)
	}

	draft, err := ParseReply(reply)
	if err != nil {
		telemetry.Error("outreach.parse_failed", map[string]any{
			"lead":  ref.String(),
			"error": err.Error(),
		})
		return EmailStatus{}, errors.Join(ErrGenerationFailed, err)
	}

	status := s.buildStatus(ctx, draft)
	if err := s.Store.WriteJSON(ctx, ref, leadstore.ArtifactEmailStatus, status); err != nil {
		return EmailStatus{}, err
	}
	if err := s.Store.WriteText(ctx, ref, leadstore.ArtifactColdEmail, status.ColdEmail); err != nil {
		return EmailStatus{}, err
	}
	return status, nil
}

// buildStatus resolves the chosen deck against the catalog. A deck name the
// catalog does not know keeps the model's label but marks the URL and
// summary as not found.
func (s *Service) buildStatus(ctx context.Context, draft Draft) EmailStatus {
	status := EmailStatus{
		Status:          "cold",
		ColdEmail:       draft.Body,
		Subject:         draft.Subject,
		RecommendedDeck: draft.DeckChosen,
		DeckURL:         deckNotFound,
		DeckSummary:     deckNotFound,
		GeneratedOn:     s.now().UTC().Format(generatedOnLayout),
	}
	if status.RecommendedDeck == "" {
		status.RecommendedDeck = deckNotFound
		return status
	}
	deck, err := s.Catalog.FindByName(ctx, draft.DeckChosen)
	if err != nil {
		return status
	}
	status.RecommendedDeck = deck.DeckName
	status.DeckURL = deck.DeckURL
	status.DeckSummary = deck.DeckSummary
	return status
}

func (s *Service) agencyProfile(ctx context.Context, ref leadstore.Ref) string {
	if s.Agency == nil {
		return ""
	}
	profile, err := s.Agency.Profile(ctx)
	if err != nil {
		telemetry.Info("outreach.agency_profile_unavailable", map[string]any{
			"lead":  ref.String(),
			"error": err.Error(),
		})
		return ""
	}
	return profile
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
