package llm

import (
	"errors"
	"testing"
)

func TestNewClient_Ollama(t *testing.T) {
	client, err := NewClient("ollama", "llama3", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	ollamaClient, ok := client.(*OllamaClient)
	if !ok {
		t.Fatalf("expected OllamaClient, got %T", client)
	}
	if ollamaClient.baseURL != defaultOllamaBaseURL {
		t.Errorf("baseURL = %q, want %q", ollamaClient.baseURL, defaultOllamaBaseURL)
	}
}

func TestNewClient_LMStudio(t *testing.T) {
	client, err := NewClient("LM-Studio", "llama3", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	lmStudioClient, ok := client.(*LMStudioClient)
	if !ok {
		t.Fatalf("expected LMStudioClient, got %T", client)
	}
	if lmStudioClient.baseURL != defaultLMStudioBaseURL {
		t.Errorf("baseURL = %q, want %q", lmStudioClient.baseURL, defaultLMStudioBaseURL)
	}
}

func TestNewClient_OpenAI(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient("openai", "", ""); err == nil {
		t.Fatal("expected error without OPENAI_API_KEY")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	client, err := NewClient("openai", "", "http://localhost:9999/v1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	openaiClient, ok := client.(*OpenAIClient)
	if !ok {
		t.Fatalf("expected OpenAIClient, got %T", client)
	}
	if openaiClient.model != DefaultOpenAIModel {
		t.Errorf("model = %q, want %q", openaiClient.model, DefaultOpenAIModel)
	}
}

func TestNewClient_NoProvider(t *testing.T) {
	_, err := NewClient("  ", "model", "")
	if !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient("copilot", "model", "")
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}
