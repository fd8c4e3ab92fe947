package graph

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/OFFIS-RIT/kiwi-ke/pkg/common"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/loader"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/logger"
)

// Stage is a step of the per-document pipeline.
type Stage string

const (
	StageStart                  Stage = "start"
	StageTextAcquired           Stage = "text_acquired"
	StageEventsExtracted        Stage = "events_extracted"
	StageRelationshipsExtracted Stage = "relationships_extracted"
	StageValidated              Stage = "validated"
	StageScored                 Stage = "scored"
	StageDone                   Stage = "done"
	StageErrored                Stage = "errored"
)

// DocumentResult is the outcome of one document run. Exactly one of Output
// and Err is set.
type DocumentResult struct {
	Path      string
	Reference string
	Output    *common.Graph
	Err       *DocumentError
}

// OK reports whether the document finished in the done state.
func (r DocumentResult) OK() bool {
	return r.Err == nil && r.Output != nil
}

// ProcessDocument runs the full pipeline for a single document. It never
// returns an error: every fault, including a panic in a collaborator, ends
// up in the Err field of the result.
func (g *GraphClient) ProcessDocument(ctx context.Context, topic string, file loader.GraphFile) (res DocumentResult) {
	res = DocumentResult{Path: file.FilePath, Reference: file.ID}
	stage := StageStart

	fail := func(err error) DocumentResult {
		kind := classifyError(stage, err)
		logger.Error(
			"[Graph] Document failed",
			"path", file.FilePath,
			"kind", kind,
			"stage", stage,
			"err", err,
		)
		return DocumentResult{
			Path:      file.FilePath,
			Reference: file.ID,
			Err: &DocumentError{
				Path:    file.FilePath,
				Kind:    kind,
				Message: err.Error(),
				Stage:   stage,
			},
		}
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Debug("[Graph] Recovered panic", "path", file.FilePath, "stack", string(debug.Stack()))
			res = fail(fmt.Errorf("panic: %v", r))
			res.Err.Kind = ErrorKindUnexpected
		}
	}()

	advance := func(next Stage) {
		logger.Debug("[Graph] Stage", "path", file.FilePath, "from", stage, "to", next)
		stage = next
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	raw, err := file.GetText(ctx)
	if err != nil {
		return fail(fmt.Errorf("failed to read %s: %w", file.FilePath, err))
	}
	text, err := loader.PrepareText(string(raw), g.textLimits)
	if err != nil {
		return fail(err)
	}
	if strings.TrimSpace(text) == "" {
		return fail(ErrEmptyDocument)
	}
	advance(StageTextAcquired)

	events, err := g.extractEvents(ctx, text, topic, file.ID)
	if err != nil {
		return fail(err)
	}
	advance(StageEventsExtracted)

	pairs, err := g.extractRelationships(ctx, text, events)
	if err != nil {
		return fail(err)
	}
	advance(StageRelationshipsExtracted)

	accepted := make([]candidatePair, 0, len(pairs))
	retained := make([]common.KeyEvent, 0, len(events))
	seen := make(map[string]struct{}, len(events))
	keep := func(e common.KeyEvent) {
		if _, ok := seen[e.ID]; ok {
			return
		}
		seen[e.ID] = struct{}{}
		retained = append(retained, e)
	}
	for _, p := range pairs {
		ok, reason := ValidateTransition(p.source, p.target)
		if !ok {
			logger.Debug(
				"[Graph] Rejected relationship",
				"source", p.source.Name,
				"target", p.target.Name,
				"reason", reason,
			)
			continue
		}
		accepted = append(accepted, p)
		keep(p.source)
		keep(p.target)
	}
	advance(StageValidated)

	out := common.Graph{
		Events:        retained,
		Relationships: make([]common.Relationship, 0, len(accepted)),
		Evidence:      make([]common.Evidence, 0, len(accepted)),
	}
	for _, p := range accepted {
		strength, justification, err := g.scoreRelationship(ctx, text, p.source, p.target)
		if err != nil {
			return fail(err)
		}

		relID, err := g.newID()
		if err != nil {
			return fail(fmt.Errorf("failed to generate ID for relationship: %w", err))
		}
		evID, err := g.newID()
		if err != nil {
			return fail(fmt.Errorf("failed to generate ID for evidence: %w", err))
		}

		out.Relationships = append(out.Relationships, common.Relationship{
			ID:                    relID,
			SourceEventID:         p.source.ID,
			TargetEventID:         p.target.ID,
			Type:                  common.RelationshipTypeLeadsTo,
			EvidenceStrength:      strength,
			EvidenceJustification: justification,
		})
		out.Evidence = append(out.Evidence, common.Evidence{
			ID:             evID,
			RelationshipID: relID,
			SourceID:       g.evidenceNamespace + ":" + file.ID,
			Reference:      file.ID,
		})
	}
	advance(StageScored)
	advance(StageDone)

	logger.Info(
		"[Graph] Document processed",
		"path", file.FilePath,
		"events", len(out.Events),
		"relationships", len(out.Relationships),
	)

	res.Output = &out
	return res
}
