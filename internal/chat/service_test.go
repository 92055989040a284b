package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"bdengine-backend/internal/leads"
	"bdengine-backend/internal/leadstore"
	"bdengine-backend/internal/llm"
	"bdengine-backend/internal/persona"
	"bdengine-backend/internal/shared/storage/object/local"
)

type fakeLLM struct {
	reply       string
	err         error
	gotMessages []llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	f.gotMessages = req.Messages
	return f.reply, f.err
}

func newTestService(t *testing.T, client llm.Client) (*Service, *leadstore.Store, leadstore.Ref) {
	t.Helper()
	store := leadstore.New(local.New(t.TempDir()))
	ref := leadstore.Ref{Partition: "2026-08-30", Name: "Jane Doe"}
	ctx := context.Background()

	lead := leads.Lead{FirstName: "Jane", LastName: "Doe"}
	if err := store.WriteJSON(ctx, ref, leadstore.ArtifactLead, lead); err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	p := persona.Persona{PersonaType: "Visionary", CommunicationStyle: "direct"}
	if err := store.WriteJSON(ctx, ref, leadstore.ArtifactPersona, p); err != nil {
		t.Fatalf("seed persona: %v", err)
	}

	return &Service{Store: store, LLM: client, Model: "gpt-4-turbo"}, store, ref
}

func TestTranscriptSeedsWithoutPersisting(t *testing.T) {
	svc, store, ref := newTestService(t, &fakeLLM{})
	ctx := context.Background()

	messages, err := svc.Transcript(ctx, ref)
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(messages) != 1 || messages[0].Role != llm.RoleSystem {
		t.Fatalf("seed = %+v", messages)
	}
	if !strings.Contains(messages[0].Content, "Jane Doe") {
		t.Fatal("system prompt should name the lead")
	}

	var persisted []llm.Message
	if err := store.ReadJSON(ctx, ref, leadstore.ArtifactChat, &persisted); !errors.Is(err, leadstore.ErrNotFound) {
		t.Fatalf("seed must not persist, got %v", err)
	}
}

func TestSendFirstExchange(t *testing.T) {
	client := &fakeLLM{reply: "Thanks for reaching out."}
	svc, store, ref := newTestService(t, client)
	ctx := context.Background()

	messages, err := svc.Send(ctx, ref, "Hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("transcript has %d turns, want 3", len(messages))
	}
	if messages[0].Role != llm.RoleSystem ||
		messages[1].Role != llm.RoleUser || messages[1].Content != "Hello" ||
		messages[2].Role != llm.RoleAssistant || messages[2].Content != "Thanks for reaching out." {
		t.Fatalf("transcript order wrong: %+v", messages)
	}

	var persisted []llm.Message
	if err := store.ReadJSON(ctx, ref, leadstore.ArtifactChat, &persisted); err != nil {
		t.Fatalf("chat.json: %v", err)
	}
	if len(persisted) != 3 {
		t.Fatalf("persisted %d turns, want 3", len(persisted))
	}
}

func TestSendGrowsByTwo(t *testing.T) {
	client := &fakeLLM{reply: "Sure."}
	svc, _, ref := newTestService(t, client)
	ctx := context.Background()

	before, err := svc.Send(ctx, ref, "Hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	after, err := svc.Send(ctx, ref, "One more question")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(after) != len(before)+2 {
		t.Fatalf("transcript grew from %d to %d, want +2", len(before), len(after))
	}
}

func TestSendFailureLeavesTranscriptUntouched(t *testing.T) {
	client := &fakeLLM{reply: "First reply."}
	svc, store, ref := newTestService(t, client)
	ctx := context.Background()

	if _, err := svc.Send(ctx, ref, "Hello"); err != nil {
		t.Fatalf("send: %v", err)
	}

	client.err = errors.New("rate limited")
	if _, err := svc.Send(ctx, ref, "Again"); !errors.Is(err, ErrReplyFailed) {
		t.Fatalf("expected ErrReplyFailed, got %v", err)
	}

	var persisted []llm.Message
	if err := store.ReadJSON(ctx, ref, leadstore.ArtifactChat, &persisted); err != nil {
		t.Fatalf("chat.json: %v", err)
	}
	if len(persisted) != 3 {
		t.Fatalf("persisted %d turns after failed send, want 3", len(persisted))
	}
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	svc, _, ref := newTestService(t, &fakeLLM{})
	if _, err := svc.Send(context.Background(), ref, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestSendWindowsModelContext(t *testing.T) {
	client := &fakeLLM{reply: "ok"}
	svc, store, ref := newTestService(t, client)
	ctx := context.Background()

	// Persist a long history directly, then send once more.
	history := []llm.Message{{Role: llm.RoleSystem, Content: "system"}}
	for i := 0; i < 30; i++ {
		history = append(history,
			llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf("q%d", i)},
			llm.Message{Role: llm.RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		)
	}
	if err := store.WriteJSON(ctx, ref, leadstore.ArtifactChat, history); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	messages, err := svc.Send(ctx, ref, "latest")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(messages) != len(history)+2 {
		t.Fatalf("persisted transcript must keep full history, got %d", len(messages))
	}

	if len(client.gotMessages) != contextWindowTurns+1 {
		t.Fatalf("model context has %d turns, want %d", len(client.gotMessages), contextWindowTurns+1)
	}
	if client.gotMessages[0].Role != llm.RoleSystem {
		t.Fatal("model context must keep the system turn first")
	}
	last := client.gotMessages[len(client.gotMessages)-1]
	if last.Role != llm.RoleUser || last.Content != "latest" {
		t.Fatalf("model context must end with the new turn, got %+v", last)
	}
}

func TestSendRequiresPersona(t *testing.T) {
	store := leadstore.New(local.New(t.TempDir()))
	ref := leadstore.Ref{Partition: "2026-08-30", Name: "Jane Doe"}
	if err := store.WriteJSON(context.Background(), ref, leadstore.ArtifactLead, leads.Lead{FirstName: "Jane"}); err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	svc := &Service{Store: store, LLM: &fakeLLM{}, Model: "gpt-4-turbo"}

	if _, err := svc.Send(context.Background(), ref, "Hello"); !errors.Is(err, ErrPersonaRequired) {
		t.Fatalf("expected ErrPersonaRequired, got %v", err)
	}
}
