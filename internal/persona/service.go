package persona

import (
	"context"
	"errors"

	"bdengine-backend/internal/leads"
	"bdengine-backend/internal/leadstore"
	"bdengine-backend/internal/llm"
	"bdengine-backend/internal/shared/metrics"
	"bdengine-backend/internal/shared/telemetry"
)

const generationTemperature = 0.7

var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrNotFound         = errors.New("persona not found")
	ErrAlreadyExists    = errors.New("persona already exists")
	ErrGenerating       = errors.New("persona generation in progress")
	ErrGenerationFailed = errors.New("persona generation failed")
)

// PostFetcher returns recent public posts for a profile URL.
type PostFetcher interface {
	FetchPosts(ctx context.Context, linkedinURL string) ([]string, error)
}

// Service synthesizes and reads lead personas.
type Service struct {
	Store *leadstore.Store
	Posts PostFetcher
	LLM   llm.Client
	Model string
}

// Get reads the persisted persona for a lead.
func (s *Service) Get(ctx context.Context, ref leadstore.Ref) (Persona, error) {
	var p Persona
	if err := s.Store.ReadJSON(ctx, ref, leadstore.ArtifactPersona, &p); err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			return Persona{}, ErrNotFound
		}
		return Persona{}, err
	}
	return p, nil
}

// Synthesize generates and persists the persona for a lead. The operation is
// at-most-once: an existing persona claim rejects regeneration.
func (s *Service) Synthesize(ctx context.Context, ref leadstore.Ref) (Persona, error) {
	var lead leads.Lead
	if err := s.Store.ReadJSON(ctx, ref, leadstore.ArtifactLead, &lead); err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			return Persona{}, ErrLeadNotFound
		}
		return Persona{}, err
	}

	if err := s.Store.ClaimArtifact(ctx, ref, leadstore.ArtifactPersona); err != nil {
		switch {
		case errors.Is(err, leadstore.ErrAlreadyExists):
			return Persona{}, ErrAlreadyExists
		case errors.Is(err, leadstore.ErrGenerating):
			return Persona{}, ErrGenerating
		}
		return Persona{}, err
	}

	p, err := s.generate(ctx, ref, lead)
	if err != nil {
		metrics.IncPersonaFailed()
		if resolveErr := s.Store.ResolveArtifact(ctx, ref, leadstore.ArtifactPersona, leadstore.StateFailed); resolveErr != nil {
			telemetry.Error("persona.resolve_failed", map[string]any{
				"lead":  ref.String(),
				"error": resolveErr.Error(),
			})
		}
		return Persona{}, err
	}

	if err := s.Store.ResolveArtifact(ctx, ref, leadstore.ArtifactPersona, leadstore.StateReady); err != nil {
		return Persona{}, err
	}
	metrics.IncPersonaGenerated()
	return p, nil
}

func (s *Service) generate(ctx context.Context, ref leadstore.Ref, lead leads.Lead) (Persona, error) {
	posts := s.fetchPosts(ctx, ref, lead.LinkedInURL)

	reply, err := s.LLM.Chat(ctx, llm.ChatRequest{
		Model: s.Model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: BuildPrompt(lead, posts)},
		},
		Temperature: generationTemperature,
		JSONOutput:  true,
	})
	if err != nil {
		return Persona{}, errors.Join(ErrGenerationFailed, err)
	}

	p, err := Parse(reply)
	if err != nil {
		telemetry.Error("persona.parse_failed", map[string]any{
			"lead":  ref.String(),
			"error": err.Error(),
		})
		return Persona{}, errors.Join(ErrGenerationFailed, err)
	}

	if err := s.Store.WriteJSON(ctx, ref, leadstore.ArtifactPersona, p); err != nil {
		return Persona{}, err
	}
	return p, nil
}

// fetchPosts degrades to an empty list on any failure; post availability is
// never a reason to abort synthesis.
func (s *Service) fetchPosts(ctx context.Context, ref leadstore.Ref, linkedinURL string) []string {
	if s.Posts == nil || linkedinURL == "" {
		return nil
	}
	posts, err := s.Posts.FetchPosts(ctx, linkedinURL)
	if err != nil {
		telemetry.Info("persona.posts_unavailable", map[string]any{
			"lead":  ref.String(),
			"error": err.Error(),
		})
		return nil
	}
	if err := s.Store.WriteJSON(ctx, ref, leadstore.ArtifactPosts, posts); err != nil {
		telemetry.Error("persona.posts_persist_failed", map[string]any{
			"lead":  ref.String(),
			"error": err.Error(),
		})
	}
	return posts
}
