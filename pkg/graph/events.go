package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/kiwi-ke/pkg/ai"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/common"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/logger"
)

type extractEvent struct {
	Name            string           `json:"name" validate:"required" jsonschema_description:"Chemical-agnostic event name phrased as [Direction] of [Entity] in [Location]"`
	Description     string           `json:"description" jsonschema_description:"Short description of the biological state change"`
	EventType       common.EventType `json:"event_type" validate:"required,oneof=MIE KE AO" jsonschema:"enum=MIE,enum=KE,enum=AO" jsonschema_description:"MIE, KE or AO"`
	BiologicalLevel string           `json:"biological_level" jsonschema:"enum=molecular,enum=cellular,enum=tissue,enum=organ,enum=organism,enum=population" jsonschema_description:"Level of biological organisation the event is described at"`
	Organ           string           `json:"organ" jsonschema_description:"Affected organ, empty if the article names none"`
}

type extractEventsResponse struct {
	Events []extractEvent `json:"events" validate:"dive" jsonschema_description:"Key events described in the article"`
}

// extractEvents asks the inference service for the chemical-agnostic key
// events of a document. Every returned event carries a fresh id and the
// document reference.
func (g *GraphClient) extractEvents(
	ctx context.Context,
	text string,
	topic string,
	reference string,
) ([]common.KeyEvent, error) {
	var res extractEventsResponse
	err := g.aiClient.GenerateCompletionWithFormat(
		ctx,
		ai.PromptKindExtractEvents,
		"Extract chemical-agnostic key events from a scientific article.",
		fmt.Sprintf(ai.ExtractEventsUserPrompt, text, topic),
		&res,
		g.options(fmt.Sprintf(ai.ExtractEventsSystemPrompt, topic, topic))...,
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrNoEventsExtracted, err)
	}
	if len(res.Events) == 0 {
		return nil, ErrNoEventsExtracted
	}

	events := make([]common.KeyEvent, 0, len(res.Events))
	for _, e := range res.Events {
		id, err := g.newID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ID for event: %w", err)
		}
		events = append(events, common.KeyEvent{
			ID:              id,
			Name:            strings.TrimSpace(e.Name),
			Description:     strings.TrimSpace(e.Description),
			EventType:       e.EventType,
			BiologicalLevel: common.BiologicalLevel(strings.TrimSpace(e.BiologicalLevel)),
			Organ:           strings.TrimSpace(e.Organ),
			Reference:       reference,
		})
	}

	logger.Debug("[Graph] Extracted key events", "reference", reference, "count", len(events))
	return events, nil
}
