package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/kiwi-ke/pkg/ai"
)

type relationshipsPayload struct {
	Relationships []struct {
		SourceEventID string `json:"source_event_id" validate:"required"`
		TargetEventID string `json:"target_event_id" validate:"required"`
	} `json:"relationships" validate:"dive"`
}

func TestGenerateCompletionWithFormat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":             "llama3",
			"created_at":        "2024-01-01T00:00:00Z",
			"message":           map[string]any{"role": "assistant", "content": `{"relationships":[{"source_event_id":"a","target_event_id":"b"}]}`},
			"done":              true,
			"prompt_eval_count": 20,
			"eval_count":        10,
			"total_duration":    2000000000,
		})
	}))
	defer srv.Close()

	client, err := NewGraphOllamaClient(NewGraphOllamaClientParams{
		ExtractionModel: "llama3",
		Temperature:     0.1,
		BaseURL:         srv.URL,
		ApiKey:          "secret",
	})
	if err != nil {
		t.Fatalf("NewGraphOllamaClient() error = %v", err)
	}

	var out relationshipsPayload
	err = client.GenerateCompletionWithFormat(
		context.Background(),
		ai.PromptKindExtractRelationships,
		"Extract relationships",
		"Article: ...",
		&out,
		ai.WithSystemPrompts("system"),
	)
	if err != nil {
		t.Fatalf("GenerateCompletionWithFormat() error = %v", err)
	}
	if len(out.Relationships) != 1 || out.Relationships[0].TargetEventID != "b" {
		t.Fatalf("unexpected payload %+v", out)
	}
	if got["model"] != "llama3" {
		t.Fatalf("request model = %v", got["model"])
	}
	if _, ok := got["format"].(map[string]any); !ok {
		t.Fatalf("expected a JSON schema format, got %T", got["format"])
	}

	m := client.GetMetrics()
	if m.TotalTokens != 30 || m.DurationMs != 2000 {
		t.Fatalf("unexpected metrics %+v", m)
	}
}

func TestGenerateCompletionWithFormatRejectsNonPointer(t *testing.T) {
	client, err := NewGraphOllamaClient(NewGraphOllamaClientParams{BaseURL: "http://localhost:11434"})
	if err != nil {
		t.Fatalf("NewGraphOllamaClient() error = %v", err)
	}
	err = client.GenerateCompletionWithFormat(context.Background(), "x", "", "p", relationshipsPayload{})
	if err == nil || !strings.Contains(err.Error(), "non-nil pointer") {
		t.Fatalf("expected pointer error, got %v", err)
	}
}
