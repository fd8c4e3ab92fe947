package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/OFFIS-RIT/kiwi-ke/pkg/ai"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/logger"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
)

const (
	defaultContextWindow = 4096
	responseTokenReserve = 2048
)

// GenerateCompletionWithFormat sends a prompt to the model with the JSON
// schema of out as the response format and decodes the result into out.
func (c *GraphOllamaClient) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	if out == nil {
		return errors.New("out must be a non-nil pointer")
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("out must be a non-nil pointer")
	}

	formatBytes, err := json.Marshal(ai.GenerateSchema(out))
	if err != nil {
		return err
	}

	options := ai.ApplyOptions(ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: c.temperature,
		Thinking:    c.thinking,
	}, opts...)

	msgs := make([]api.Message, 0, len(options.SystemPrompts)+1)
	for _, sys := range options.SystemPrompts {
		msgs = append(msgs, api.Message{Role: "system", Content: sys})
	}
	msgs = append(msgs, api.Message{Role: "user", Content: prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: msgs,
		Stream:   &stream,
		Format:   json.RawMessage(formatBytes),
		Options:  map[string]any{"temperature": options.Temperature},
	}

	if options.Thinking != "" {
		req.Think = &api.ThinkValue{
			Value: options.Thinking,
		}
	}

	if numCtx := c.contextWindow(msgs); numCtx > defaultContextWindow {
		req.Options["num_ctx"] = numCtx
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.reqLock.Release(1)

	var content strings.Builder
	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		content.WriteString(cr.Message.Content)
		if cr.Done {
			final = cr
		}
		return nil
	}); err != nil {
		return fmt.Errorf("%s: chat request failed: %w", name, err)
	}

	c.modifyMetrics(ai.ModelMetrics{
		Requests:     1,
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   final.Metrics.TotalDuration.Milliseconds(),
	})

	if err := ai.DecodePayload(content.String(), out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// contextWindow estimates the tokens a request needs, including room for
// the response. Documents are sent whole, so the default Ollama window is
// usually far too small. Without a usable encoder it falls back to four
// bytes per token.
func (c *GraphOllamaClient) contextWindow(msgs []api.Message) int {
	tokens := responseTokenReserve
	enc, err := tiktoken.GetEncoding(c.tokenEncoder)
	if err != nil {
		logger.Debug("[AI] Token encoder unavailable, estimating context size", "encoder", c.tokenEncoder, "err", err)
		for _, m := range msgs {
			tokens += len(m.Content)/4 + 1
		}
		return tokens
	}
	for _, m := range msgs {
		tokens += len(enc.Encode(m.Content, nil, nil))
	}
	return tokens
}
