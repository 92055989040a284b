package llm

import (
	"context"
	"errors"
)

// Message roles follow the chat-completions convention.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a chat-completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest captures one text-generation call.
type ChatRequest struct {
	// Model overrides the client default when non-empty.
	Model       string
	Messages    []Message
	Temperature float32
	// JSONOutput asks the provider for a schema-constrained JSON object reply.
	JSONOutput bool
}

// Client abstracts LLM providers for persona, outreach, and chat generation.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderClient is the stub wired when no provider credentials are set.
// It errors at point of use so the rest of the API stays functional.
type PlaceholderClient struct{}

// Chat returns ErrNotConfigured.
func (PlaceholderClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	_ = ctx
	_ = req
	return "", ErrNotConfigured
}
