package llm

import (
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func TestNewOllamaClient_DefaultBaseURL(t *testing.T) {
	client, err := NewOllamaClient("llama3", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if client.baseURL != defaultOllamaBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, defaultOllamaBaseURL)
	}
}

func TestNewOllamaClient_EmptyModel(t *testing.T) {
	_, err := NewOllamaClient("", "")
	if err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestToLangChainMessages(t *testing.T) {
	got := toLangChainMessages([]Message{
		{Role: "System", Content: "be brief"},
		{Role: RoleUser, Content: "stats"},
		{Role: RoleAssistant, Content: "ok"},
		{Role: "tool", Content: "other"},
	})

	want := []llms.ChatMessageType{
		llms.ChatMessageTypeSystem,
		llms.ChatMessageTypeHuman,
		llms.ChatMessageTypeAI,
		llms.ChatMessageTypeHuman,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d messages, want %d", len(got), len(want))
	}
	for i, m := range got {
		if m.Role != want[i] {
			t.Errorf("message %d role = %q, want %q", i, m.Role, want[i])
		}
	}
}
