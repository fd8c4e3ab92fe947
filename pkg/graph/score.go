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

type scoreRelationshipResponse struct {
	StrengthScore *float64 `json:"strength_score" validate:"required,min=0,max=1" jsonschema_description:"Evidence strength between 0 and 1"`
	Justification string   `json:"justification" jsonschema_description:"What in the article supports the score"`
}

// scoreRelationship rates how well the document supports source leading to
// target. Any failure of the scoring call degrades to
// common.DefaultEvidenceStrength with an empty justification. Only context
// cancellation is returned as an error.
func (g *GraphClient) scoreRelationship(
	ctx context.Context,
	text string,
	source common.KeyEvent,
	target common.KeyEvent,
) (float64, string, error) {
	upstream, err := json.MarshalIndent(source, "", "  ")
	if err != nil {
		return 0, "", fmt.Errorf("failed to encode source event: %w", err)
	}
	downstream, err := json.MarshalIndent(target, "", "  ")
	if err != nil {
		return 0, "", fmt.Errorf("failed to encode target event: %w", err)
	}

	var res scoreRelationshipResponse
	err = g.aiClient.GenerateCompletionWithFormat(
		ctx,
		ai.PromptKindScoreRelationship,
		"Score the evidence strength of a causal relationship.",
		fmt.Sprintf(ai.ScoreRelationshipUserPrompt, text, string(upstream), string(downstream)),
		&res,
		g.options(ai.ScoreRelationshipSystemPrompt)...,
	)
	if err != nil {
		if ctx.Err() != nil {
			return 0, "", ctx.Err()
		}
		logger.Warn(
			"[Graph] Scoring failed, using default strength",
			"source", source.ID,
			"target", target.ID,
			"err", err,
		)
		return common.DefaultEvidenceStrength, "", nil
	}

	if res.StrengthScore == nil {
		logger.Warn("[Graph] Missing score, using default strength", "source", source.ID, "target", target.ID)
		return common.DefaultEvidenceStrength, "", nil
	}
	score := *res.StrengthScore
	if score < 0 || score > 1 {
		logger.Warn("[Graph] Score out of range, using default strength", "score", score)
		return common.DefaultEvidenceStrength, "", nil
	}

	return score, strings.TrimSpace(res.Justification), nil
}
