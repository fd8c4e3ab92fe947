package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/OFFIS-RIT/kiwi-ke/pkg/ai"
)

type scorePayload struct {
	StrengthScore *float64 `json:"strength_score" validate:"required,min=0,max=1"`
	Justification string   `json:"justification"`
}

func completionServer(t *testing.T, content string, gotBody *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotBody != nil {
			if err := json.NewDecoder(r.Body).Decode(gotBody); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
}

func TestGenerateCompletionWithFormat(t *testing.T) {
	var body map[string]any
	srv := completionServer(t, `{"strength_score":0.7,"justification":"shown in vitro"}`, &body)
	defer srv.Close()

	client := NewGraphOpenAIClient(NewGraphOpenAIClientParams{
		ExtractionModel: "test-model",
		Temperature:     0.1,
		ChatURL:         srv.URL,
		ChatKey:         "test",
	})

	var out scorePayload
	err := client.GenerateCompletionWithFormat(
		context.Background(),
		ai.PromptKindScoreRelationship,
		"Score a relationship",
		"Article: ...",
		&out,
		ai.WithSystemPrompts("system"),
	)
	if err != nil {
		t.Fatalf("GenerateCompletionWithFormat() error = %v", err)
	}
	if out.StrengthScore == nil || *out.StrengthScore != 0.7 {
		t.Fatalf("unexpected payload %+v", out)
	}
	if body["model"] != "test-model" {
		t.Fatalf("request model = %v", body["model"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user message, got %d", len(msgs))
	}

	m := client.GetMetrics()
	if m.Requests != 1 || m.TotalTokens != 15 {
		t.Fatalf("unexpected metrics %+v", m)
	}
	client.ResetMetrics()
	if client.GetMetrics().TotalTokens != 0 {
		t.Fatal("ResetMetrics() did not clear metrics")
	}
}

func TestGenerateCompletionWithFormatInvalidPayload(t *testing.T) {
	srv := completionServer(t, `{"strength_score":3,"justification":""}`, nil)
	defer srv.Close()

	client := NewGraphOpenAIClient(NewGraphOpenAIClientParams{
		ExtractionModel: "test-model",
		ChatURL:         srv.URL,
		ChatKey:         "test",
	})

	var out scorePayload
	err := client.GenerateCompletionWithFormat(context.Background(), ai.PromptKindScoreRelationship, "", "p", &out)
	if !errors.Is(err, ai.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}
