package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dojotek/chatbot/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(nil, config.GenerationConfig{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 5,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, srv
}

func TestGenerateMapsRolesAndMetadata(t *testing.T) {
	t.Parallel()

	var got chatRequest
	var auth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "the reply"}},
			},
		})
	})

	text, err := client.Generate(context.Background(), Request{
		SystemPrompt:     "you are helpful",
		KnowledgeID:      "kb-1",
		KnowledgeFileIDs: []string{"f-1", "f-2"},
		History: []Message{
			{Role: "user", Content: "hi"},
			{Role: "ai", Content: "hello"},
		},
		Query: "what are your hours?",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "the reply" {
		t.Fatalf("got %q", text)
	}
	if auth != "Bearer test-key" {
		t.Fatalf("auth header %q", auth)
	}
	if got.Model != "test-model" {
		t.Fatalf("model %q", got.Model)
	}
	wantRoles := []string{"system", "user", "assistant", "user"}
	if len(got.Messages) != len(wantRoles) {
		t.Fatalf("got %d messages, want %d", len(got.Messages), len(wantRoles))
	}
	for i, want := range wantRoles {
		if got.Messages[i].Role != want {
			t.Fatalf("message %d role %q, want %q", i, got.Messages[i].Role, want)
		}
	}
	if got.Messages[len(got.Messages)-1].Content != "what are your hours?" {
		t.Fatalf("query not last: %q", got.Messages[len(got.Messages)-1].Content)
	}
	if got.Metadata["knowledge_id"] != "kb-1" {
		t.Fatalf("metadata %v", got.Metadata)
	}
}

func TestGenerateOmitsMetadataWithoutKnowledge(t *testing.T) {
	t.Parallel()

	var got chatRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "ok"}},
			},
		})
	})

	if _, err := client.Generate(context.Background(), Request{Query: "hello"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got.Metadata != nil {
		t.Fatalf("expected no metadata, got %v", got.Metadata)
	}
}

func TestGenerateErrorStatus(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	})

	if _, err := client.Generate(context.Background(), Request{Query: "hello"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	if _, err := client.Generate(context.Background(), Request{Query: "hello"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestGenerateRequiresQuery(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})

	if _, err := client.Generate(context.Background(), Request{Query: "   "}); err == nil {
		t.Fatal("expected error")
	}
}
