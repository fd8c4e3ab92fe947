package ai

import (
	"context"
	"errors"
	"time"

	"github.com/OFFIS-RIT/kiwi-ke/internal/util"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/logger"
)

// RetryClient wraps a GraphAIClient and retries failed structured
// completions. Invalid payloads are retried as well, since a second
// sample from the model frequently parses.
type RetryClient struct {
	client   GraphAIClient
	maxTries int
	delay    time.Duration
}

// NewRetryClient returns client unchanged when maxTries <= 1.
func NewRetryClient(client GraphAIClient, maxTries int, delay time.Duration) GraphAIClient {
	if maxTries <= 1 {
		return client
	}
	return &RetryClient{
		client:   client,
		maxTries: maxTries,
		delay:    delay,
	}
}

// GenerateCompletionWithFormat forwards to the wrapped client, retrying on
// error with exponential backoff.
func (c *RetryClient) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...GenerateOption,
) error {
	attempt := 0
	return util.RetryErrWithBackoff(ctx, c.maxTries, c.delay, func(ctx context.Context) error {
		attempt++
		err := c.client.GenerateCompletionWithFormat(ctx, name, description, prompt, out, opts...)
		if err != nil && attempt < c.maxTries && !errors.Is(err, context.Canceled) {
			logger.Debug("[AI] Retrying structured completion", "kind", name, "attempt", attempt, "err", err)
		}
		return err
	})
}

func (c *RetryClient) ResetMetrics() {
	c.client.ResetMetrics()
}

func (c *RetryClient) GetMetrics() ModelMetrics {
	return c.client.GetMetrics()
}
