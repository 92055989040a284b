package chat

import (
	"context"
	"errors"
	"strings"

	"bdengine-backend/internal/leads"
	"bdengine-backend/internal/leadstore"
	"bdengine-backend/internal/llm"
	"bdengine-backend/internal/persona"
	"bdengine-backend/internal/shared/metrics"
	"bdengine-backend/internal/shared/telemetry"
)

const (
	replyTemperature = 0.7

	// contextWindowTurns bounds how many trailing turns are sent to the
	// model alongside the system prompt. The full transcript is still
	// persisted.
	contextWindowTurns = 24
)

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrPersonaRequired = errors.New("persona required before chat")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrReplyFailed     = errors.New("chat reply failed")
)

// Service runs simulated conversations with a lead's persona.
type Service struct {
	Store *leadstore.Store
	LLM   llm.Client
	Model string
}

// Transcript reads the persisted conversation, seeding an unsaved system
// turn when no conversation exists yet. The seed is only persisted once the
// first exchange succeeds.
func (s *Service) Transcript(ctx context.Context, ref leadstore.Ref) ([]llm.Message, error) {
	messages, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Send appends the user's message, asks the model for an in-character reply,
// and persists the grown transcript. A failed reply leaves the persisted
// transcript untouched.
func (s *Service) Send(ctx context.Context, ref leadstore.Ref, text string) ([]llm.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	messages, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: text})

	reply, err := s.LLM.Chat(ctx, llm.ChatRequest{
		Model:       s.Model,
		Messages:    windowed(messages),
		Temperature: replyTemperature,
	})
	if err != nil {
		metrics.IncChatSendFailed()
		return nil, errors.Join(ErrReplyFailed, err)
	}
	messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: reply})

	if err := s.Store.WriteJSON(ctx, ref, leadstore.ArtifactChat, messages); err != nil {
		metrics.IncChatSendFailed()
		return nil, err
	}
	metrics.IncChatSend()
	return messages, nil
}

func (s *Service) load(ctx context.Context, ref leadstore.Ref) ([]llm.Message, error) {
	var messages []llm.Message
	err := s.Store.ReadJSON(ctx, ref, leadstore.ArtifactChat, &messages)
	if err == nil && len(messages) > 0 {
		return messages, nil
	}
	if err != nil && !errors.Is(err, leadstore.ErrNotFound) {
		return nil, err
	}
	return s.seed(ctx, ref)
}

func (s *Service) seed(ctx context.Context, ref leadstore.Ref) ([]llm.Message, error) {
	var lead leads.Lead
	if err := s.Store.ReadJSON(ctx, ref, leadstore.ArtifactLead, &lead); err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	var p persona.Persona
	if err := s.Store.ReadJSON(ctx, ref, leadstore.ArtifactPersona, &p); err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			return nil, ErrPersonaRequired
		}
		return nil, err
	}
	telemetry.Info("chat.seeded", map[string]any{"lead": ref.String()})
	return []llm.Message{{Role: llm.RoleSystem, Content: BuildSystemPrompt(lead.FullName(), p)}}, nil
}

// windowed keeps the system turn plus the trailing conversation turns.
func windowed(messages []llm.Message) []llm.Message {
	if len(messages) == 0 {
		return messages
	}
	system := messages[0]
	rest := messages[1:]
	if len(rest) <= contextWindowTurns {
		return messages
	}
	out := make([]llm.Message, 0, contextWindowTurns+1)
	out = append(out, system)
	out = append(out, rest[len(rest)-contextWindowTurns:]...)
	return out
}
