package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/OFFIS-RIT/kiwi-ke/pkg/ai"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/common"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/loader"
)

// stubDoc describes how the stub answers for one article text.
// Relationships are given by event name and translated to the ids the
// pipeline assigned.
type stubDoc struct {
	events        []extractEvent
	eventsErr     error
	relationships [][2]string
	rawRelations  []extractRelationship
	relationsErr  error
	scores        map[string]float64
	scoreErr      error
	panicOn       string
}

type stubAIClient struct {
	mu      sync.Mutex
	docs    map[string]stubDoc
	calls   map[string]int
	prompts map[string][]string
}

func newStubAIClient(docs map[string]stubDoc) *stubAIClient {
	return &stubAIClient{docs: docs, calls: map[string]int{}, prompts: map[string][]string{}}
}

func (s *stubAIClient) callCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubAIClient) docFor(prompt string) (stubDoc, error) {
	for text, doc := range s.docs {
		if strings.Contains(prompt, "Article:\n"+text+"\n\n") {
			return doc, nil
		}
	}
	return stubDoc{}, errors.New("stub: unknown article")
}

func between(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	s = s[i+len(start):]
	if end == "" {
		return s
	}
	if j := strings.Index(s, end); j >= 0 {
		return s[:j]
	}
	return s
}

func (s *stubAIClient) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	s.mu.Lock()
	s.calls[name]++
	s.prompts[name] = append(s.prompts[name], prompt)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := s.docFor(prompt)
	if err != nil {
		return err
	}
	if doc.panicOn == name {
		panic("stub panic in " + name)
	}

	var payload any
	switch name {
	case ai.PromptKindExtractEvents:
		if doc.eventsErr != nil {
			return doc.eventsErr
		}
		payload = extractEventsResponse{Events: doc.events}
	case ai.PromptKindExtractRelationships:
		if doc.relationsErr != nil {
			return doc.relationsErr
		}
		var events []common.KeyEvent
		if err := json.Unmarshal([]byte(between(prompt, "Events:\n", "\n\nExtract relationships.")), &events); err != nil {
			return fmt.Errorf("stub: decode events: %w", err)
		}
		ids := map[string]string{}
		for _, e := range events {
			ids[e.Name] = e.ID
		}
		rels := append([]extractRelationship{}, doc.rawRelations...)
		for _, r := range doc.relationships {
			rels = append(rels, extractRelationship{SourceEventID: ids[r[0]], TargetEventID: ids[r[1]]})
		}
		payload = extractRelationshipsResponse{Relationships: rels}
	case ai.PromptKindScoreRelationship:
		if doc.scoreErr != nil {
			return doc.scoreErr
		}
		var source, target common.KeyEvent
		if err := json.Unmarshal([]byte(between(prompt, "Upstream:\n", "\n\nDownstream:")), &source); err != nil {
			return fmt.Errorf("stub: decode upstream: %w", err)
		}
		if err := json.Unmarshal([]byte(between(prompt, "Downstream:\n", "")), &target); err != nil {
			return fmt.Errorf("stub: decode downstream: %w", err)
		}
		score, ok := doc.scores[source.Name+"->"+target.Name]
		if !ok {
			score = 0.8
		}
		payload = map[string]any{
			"strength_score": score,
			"justification":  "supported by " + source.Name,
		}
	default:
		return fmt.Errorf("stub: unexpected prompt kind %s", name)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return ai.DecodePayload(string(b), out)
}

func (s *stubAIClient) ResetMetrics()               {}
func (s *stubAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

// memLoader serves document text from memory, keyed by file path.
type memLoader struct {
	files map[string]string
	errs  map[string]error
}

func (l memLoader) GetFileText(ctx context.Context, file loader.GraphFile) ([]byte, error) {
	if err, ok := l.errs[file.FilePath]; ok {
		return nil, err
	}
	text, ok := l.files[file.FilePath]
	if !ok {
		return nil, fmt.Errorf("no such file %s", file.FilePath)
	}
	return []byte(text), nil
}

func sequentialIDs() IDFunc {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n), nil
	}
}

func newTestClient(t *testing.T, aiClient ai.GraphAIClient, l loader.GraphFileLoader, parallel int) *GraphClient {
	t.Helper()
	client, err := NewGraphClient(NewGraphClientParams{
		AIClient:      aiClient,
		Loader:        l,
		Extensions:    []string{".txt"},
		ParallelFiles: parallel,
		IDFunc:        sequentialIDs(),
	})
	if err != nil {
		t.Fatalf("NewGraphClient: %v", err)
	}
	return client
}

func ev(name string, et common.EventType, level string) extractEvent {
	return extractEvent{Name: name, Description: name + " description", EventType: et, BiologicalLevel: level}
}

// aopDoc is a small document with one backward candidate.
func aopDoc() stubDoc {
	return stubDoc{
		events: []extractEvent{
			ev("Activation of AhR", common.EventTypeMIE, "molecular"),
			ev("Increased CYP1A1 expression in hepatocytes", common.EventTypeKE, "cellular"),
			ev("Liver steatosis", common.EventTypeKE, "organ"),
			ev("Unrelated event", common.EventTypeKE, "tissue"),
		},
		relationships: [][2]string{
			{"Activation of AhR", "Increased CYP1A1 expression in hepatocytes"},
			{"Increased CYP1A1 expression in hepatocytes", "Liver steatosis"},
			{"Liver steatosis", "Activation of AhR"},
		},
		scores: map[string]float64{
			"Activation of AhR->Increased CYP1A1 expression in hepatocytes": 0.9,
			"Increased CYP1A1 expression in hepatocytes->Liver steatosis":   0.4,
		},
	}
}
