package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bdengine-backend/internal/llm"
)

const summaryTemperature = 0.5

// ErrInvalidInput indicates a bad import request.
var ErrInvalidInput = errors.New("invalid catalog input")

// Service owns catalog reads and deck imports.
type Service struct {
	Repo  Repo
	LLM   llm.Client
	Model string
}

// List returns every case study in the catalog.
func (s *Service) List(ctx context.Context) ([]CaseStudy, error) {
	return s.Repo.List(ctx)
}

// ImportDeck extracts text from a PDF deck, asks the model for a short
// summary and tags, and stores the resulting case study.
func (s *Service) ImportDeck(ctx context.Context, deckName string, deckURL string, pdfData []byte) (CaseStudy, error) {
	deckName = strings.TrimSpace(deckName)
	if deckName == "" {
		return CaseStudy{}, fmt.Errorf("%w: deck_name is required", ErrInvalidInput)
	}
	if len(pdfData) == 0 {
		return CaseStudy{}, fmt.Errorf("%w: deck file is required", ErrInvalidInput)
	}

	text, err := ExtractDeckText(pdfData)
	if err != nil {
		return CaseStudy{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	summary, tags, err := s.summarizeDeck(ctx, deckName, text)
	if err != nil {
		return CaseStudy{}, err
	}

	cs := CaseStudy{
		DeckName:    deckName,
		DeckURL:     strings.TrimSpace(deckURL),
		DeckSummary: summary,
		Tags:        tags,
	}
	if err := s.Repo.Create(ctx, cs); err != nil {
		return CaseStudy{}, err
	}
	return cs, nil
}

type deckDigest struct {
	DeckSummary string `json:"deck_summary"`
	Tags        string `json:"tags"`
}

func (s *Service) summarizeDeck(ctx context.Context, deckName string, text string) (string, string, error) {
	var prompt strings.Builder
	prompt.WriteString("You summarize marketing case-study decks for a sales catalog.\n")
	prompt.WriteString("Deck name: " + deckName + "\n\n")
	prompt.WriteString("Deck text:\n" + text + "\n\n")
	prompt.WriteString("Return a JSON object with exactly these keys:\n")
	prompt.WriteString(`{"deck_summary": "2-3 sentence summary of the work and results", "tags": "comma separated topical tags"}`)

	reply, err := s.LLM.Chat(ctx, llm.ChatRequest{
		Model:       s.Model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt.String()}},
		Temperature: summaryTemperature,
		JSONOutput:  true,
	})
	if err != nil {
		return "", "", err
	}

	var digest deckDigest
	if err := json.Unmarshal([]byte(reply), &digest); err != nil {
		// A non-JSON reply still carries a usable summary.
		return strings.TrimSpace(reply), "", nil
	}
	return strings.TrimSpace(digest.DeckSummary), strings.TrimSpace(digest.Tags), nil
}
