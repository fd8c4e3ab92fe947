package common

// RelationshipTypeLeadsTo is the only causal relationship modelled between
// two key events.
const RelationshipTypeLeadsTo = "leads_to"

// DefaultEvidenceStrength is assigned to a relationship whose scoring call
// did not produce a usable score.
const DefaultEvidenceStrength = 0.5

// EventType classifies a key event by its position in an adverse outcome
// pathway.
type EventType string

const (
	EventTypeMIE EventType = "MIE" // Molecular Initiating Event
	EventTypeKE  EventType = "KE"  // Key Event
	EventTypeAO  EventType = "AO"  // Adverse Outcome
)

// EventTypes lists every valid EventType.
var EventTypes = []EventType{EventTypeMIE, EventTypeKE, EventTypeAO}

// Valid reports whether t is one of the closed set of event types.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeMIE, EventTypeKE, EventTypeAO:
		return true
	}
	return false
}

// KeyEvent represents a node in the causal graph: a biological state change
// described at a single level of biological organisation.
//
// ID and Reference are assigned by the pipeline after extraction. A key
// event always belongs to exactly one document.
type KeyEvent struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	EventType       EventType       `json:"event_type"`
	BiologicalLevel BiologicalLevel `json:"biological_level"`
	Organ           string          `json:"organ,omitempty"`
	Reference       string          `json:"reference"`
}

// Relationship is a directed leads_to edge between two key events of the
// same document. The target's biological level is never lower than the
// source's.
type Relationship struct {
	ID                    string  `json:"relationship_id"`
	SourceEventID         string  `json:"source_event_id"`
	TargetEventID         string  `json:"target_event_id"`
	Type                  string  `json:"relationship_type"`
	EvidenceStrength      float64 `json:"evidence_strength"`
	EvidenceJustification string  `json:"evidence_justification"`
}

// Evidence links a relationship back to the corpus entry it was derived
// from.
type Evidence struct {
	ID             string `json:"evidence_id"`
	RelationshipID string `json:"relationship_id"`
	SourceID       string `json:"source_id"`
	Reference      string `json:"reference"`
}

// Graph is the output of one successful document run, or the merged output
// of a corpus run.
type Graph struct {
	Events        []KeyEvent     `json:"events"`
	Relationships []Relationship `json:"relationships"`
	Evidence      []Evidence     `json:"evidence"`
}

// Append concatenates other onto g without any deduplication.
func (g *Graph) Append(other Graph) {
	g.Events = append(g.Events, other.Events...)
	g.Relationships = append(g.Relationships, other.Relationships...)
	g.Evidence = append(g.Evidence, other.Evidence...)
}

// ExtractionStatus is the overall outcome reported to callers.
type ExtractionStatus string

const (
	StatusSuccess ExtractionStatus = "success"
	StatusError   ExtractionStatus = "error"
)

// ExtractionResult is returned by an extraction run over a file or a
// directory.
type ExtractionResult struct {
	Events        []KeyEvent       `json:"events"`
	Relationships []Relationship   `json:"relationships"`
	Evidence      []Evidence       `json:"evidence"`
	Status        ExtractionStatus `json:"status"`
}

// NewExtractionResult builds a result from a graph, normalising nil slices
// so the JSON form always carries arrays.
func NewExtractionResult(g Graph, status ExtractionStatus) *ExtractionResult {
	res := &ExtractionResult{
		Events:        g.Events,
		Relationships: g.Relationships,
		Evidence:      g.Evidence,
		Status:        status,
	}
	if res.Events == nil {
		res.Events = []KeyEvent{}
	}
	if res.Relationships == nil {
		res.Relationships = []Relationship{}
	}
	if res.Evidence == nil {
		res.Evidence = []Evidence{}
	}
	return res
}
