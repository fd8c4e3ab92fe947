package ai

// Prompt kinds, used as the structured output name for each call site.
const (
	PromptKindExtractEvents        = "extract_key_events"
	PromptKindExtractRelationships = "extract_relationships"
	PromptKindScoreRelationship    = "score_relationship"
)

// ExtractEventsSystemPrompt expects the topic twice.
const ExtractEventsSystemPrompt = `
# Task Context
You are an expert in toxicology and Adverse Outcome Pathways (AOPs). You extract CHEMICAL-AGNOSTIC key events from a scientific article related to %s.

# Detailed Task Description & Rules
- A key event is a measurable change in a biological state.
- Describe biological process changes only. Never tie an event to the test substance, dose or exposure scenario of the article.
- Phrase every event name as "[Direction] of [Entity] in [Location]". The location may be omitted for molecular events.
- Classify each event:
  * event_type: "MIE" (molecular initiating event), "KE" (key event) or "AO" (adverse outcome)
  * biological_level: one of "molecular", "cellular", "tissue", "organ", "organism", "population"
- Put the affected organ into "organ" when the article names one, otherwise leave it empty.
- Only report events supported by the article in the context of %s.

# Examples
- "Activation of aryl hydrocarbon receptor" (MIE, molecular)
- "Increased CYP1A1 expression in hepatocytes" (KE, cellular)
- "Decreased fecundity in fish populations" (AO, population)

# Output Formatting
Output JSON only.
`

// ExtractEventsUserPrompt expects the document text and the topic.
const ExtractEventsUserPrompt = `Article:
%s

Extract chemical-agnostic key events for %s.`

const ExtractRelationshipsSystemPrompt = `
# Task Context
You identify causal "leads_to" relationships between key events of an Adverse Outcome Pathway.

# Detailed Task Description & Rules
- Only use the events provided. Refer to them by their "id".
- A relationship means the upstream (source) event leads to the downstream (target) event according to the article.
- Relationships can ONLY go from one biological level to the SAME or a HIGHER level.
- Level hierarchy: molecular < cellular < tissue < organ < organism < population

# Output Formatting
Output JSON only.
`

// ExtractRelationshipsUserPrompt expects the document text and the events
// serialised as JSON.
const ExtractRelationshipsUserPrompt = `Article:
%s

Events:
%s

Extract relationships.`

const ScoreRelationshipSystemPrompt = `
# Task Context
You score the evidence strength of a causal relationship between two key events, based only on the article.

# Detailed Task Description & Rules
- strength_score is a number between 0 and 1.
  * 0 means the article provides no support.
  * 1 means the article demonstrates the relationship directly.
- justification briefly cites what in the article supports the score.

# Output Formatting
Output JSON only.
`

// ScoreRelationshipUserPrompt expects the document text, the upstream event
// and the downstream event, both as JSON.
const ScoreRelationshipUserPrompt = `Article:
%s

Upstream:
%s

Downstream:
%s`
