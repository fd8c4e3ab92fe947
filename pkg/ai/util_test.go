package ai

import (
	"errors"
	"testing"
)

type testEvent struct {
	Name            string `json:"name" validate:"required"`
	EventType       string `json:"event_type" validate:"required,oneof=MIE KE AO"`
	BiologicalLevel string `json:"biological_level"`
}

type testEvents struct {
	Events []testEvent `json:"events" validate:"dive"`
}

type testScore struct {
	StrengthScore *float64 `json:"strength_score" validate:"required,min=0,max=1"`
	Justification string   `json:"justification"`
}

func TestUnmarshalFlexible_ObjectVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid json object",
			input: `{"name":"Activation of AhR","event_type":"MIE"}`,
			want:  "Activation of AhR",
		},
		{
			name:  "unquoted key and single quotes",
			input: `{name: 'Activation of AhR', event_type: 'MIE'}`,
			want:  "Activation of AhR",
		},
		{
			name:  "trailing comma",
			input: `{"name":"Activation of AhR","event_type":"MIE",}`,
			want:  "Activation of AhR",
		},
		{
			name:  "missing endbracket",
			input: `{"name":"Activation of AhR"`,
			want:  "Activation of AhR",
		},
		{
			name:  "stringified invalid json object",
			input: `"{name: 'Activation of AhR'}"`,
			want:  "Activation of AhR",
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"name\": \"Activation of AhR\"\n}\n",
			want:  "Activation of AhR",
		},
		{
			name:  "markdown code fence",
			input: "```json\n{\"name\": \"Activation of AhR\"}\n```",
			want:  "Activation of AhR",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got testEvent
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got.Name != tc.want {
				t.Fatalf("UnmarshalFlexible() got name %q, want %q", got.Name, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_NestedList(t *testing.T) {
	input := `{events: [{name:'A', event_type:'MIE'},{name:'B', event_type:'AO',}]}`
	var got testEvents
	if err := UnmarshalFlexible(input, &got); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	if len(got.Events) != 2 || got.Events[0].Name != "A" || got.Events[1].Name != "B" {
		t.Fatalf("UnmarshalFlexible() got = %+v, want events A,B", got)
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	var got testEvent
	if err := UnmarshalFlexible("hello", &got); err == nil {
		t.Fatalf("UnmarshalFlexible() expected error for unrecoverable input")
	}
}

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		out     any
		wantErr bool
	}{
		{
			name:  "valid events",
			input: `{"events":[{"name":"Activation of AhR","event_type":"MIE","biological_level":"molecular"}]}`,
			out:   &testEvents{},
		},
		{
			name:    "unknown event type",
			input:   `{"events":[{"name":"Activation of AhR","event_type":"Initiator"}]}`,
			out:     &testEvents{},
			wantErr: true,
		},
		{
			name:    "missing name",
			input:   `{"events":[{"event_type":"KE"}]}`,
			out:     &testEvents{},
			wantErr: true,
		},
		{
			name:  "zero score is valid",
			input: `{"strength_score":0,"justification":"not supported"}`,
			out:   &testScore{},
		},
		{
			name:    "score above one",
			input:   `{"strength_score":1.4,"justification":"strong"}`,
			out:     &testScore{},
			wantErr: true,
		},
		{
			name:    "missing score",
			input:   `{"justification":"strong"}`,
			out:     &testScore{},
			wantErr: true,
		},
		{
			name:    "empty response",
			input:   "  ",
			out:     &testScore{},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := DecodePayload(tc.input, tc.out)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("DecodePayload() expected error")
				}
				if !errors.Is(err, ErrInvalidPayload) {
					t.Fatalf("DecodePayload() error = %v, want ErrInvalidPayload", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodePayload() error = %v", err)
			}
		})
	}
}

func TestGenerateSchemaDisallowsAdditionalProperties(t *testing.T) {
	schema := GenerateSchema(&testEvents{})
	if schema == nil {
		t.Fatal("GenerateSchema() returned nil")
	}
}

func TestModelMetricsAdd(t *testing.T) {
	m := ModelMetrics{}.Add(ModelMetrics{Requests: 1, InputTokens: 100, OutputTokens: 50, TotalTokens: 150, DurationMs: 1000})
	m = m.Add(ModelMetrics{Requests: 1, TotalTokens: 50, DurationMs: 1000})
	if m.Requests != 2 || m.TotalTokens != 200 || m.DurationMs != 2000 {
		t.Fatalf("unexpected metrics %+v", m)
	}
	if m.TokenPerSecond != 100 {
		t.Fatalf("TokenPerSecond = %v, want 100", m.TokenPerSecond)
	}
}
