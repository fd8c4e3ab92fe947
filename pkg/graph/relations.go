package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/kiwi-ke/pkg/ai"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/common"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/logger"
)

type extractRelationship struct {
	SourceEventID string `json:"source_event_id" validate:"required" jsonschema_description:"id of the upstream event"`
	TargetEventID string `json:"target_event_id" validate:"required" jsonschema_description:"id of the downstream event"`
}

type extractRelationshipsResponse struct {
	Relationships []extractRelationship `json:"relationships" validate:"dive" jsonschema_description:"leads_to relationships between the provided events"`
}

// candidatePair is a proposed leads_to edge whose endpoints both exist in
// the document's event set.
type candidatePair struct {
	source common.KeyEvent
	target common.KeyEvent
}

// extractRelationships asks the inference service for leads_to pairs
// between the given events. Pairs naming an id outside events are dropped.
// An empty answer is not an error.
func (g *GraphClient) extractRelationships(
	ctx context.Context,
	text string,
	events []common.KeyEvent,
) ([]candidatePair, error) {
	encoded, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode events: %w", err)
	}

	var res extractRelationshipsResponse
	err = g.aiClient.GenerateCompletionWithFormat(
		ctx,
		ai.PromptKindExtractRelationships,
		"Extract leads_to relationships between key events.",
		fmt.Sprintf(ai.ExtractRelationshipsUserPrompt, text, string(encoded)),
		&res,
		g.options(ai.ExtractRelationshipsSystemPrompt)...,
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrNoRelationshipsExtracted, err)
	}

	byID := make(map[string]common.KeyEvent, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	pairs := make([]candidatePair, 0, len(res.Relationships))
	for _, r := range res.Relationships {
		source, okSource := byID[strings.TrimSpace(r.SourceEventID)]
		target, okTarget := byID[strings.TrimSpace(r.TargetEventID)]
		if !okSource || !okTarget {
			logger.Debug(
				"[Graph] Dropping relationship with unknown event id",
				"source", r.SourceEventID,
				"target", r.TargetEventID,
			)
			continue
		}
		pairs = append(pairs, candidatePair{source: source, target: target})
	}

	return pairs, nil
}
