package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator"
	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// ErrInvalidPayload is returned when a decoded model response does not
// satisfy the payload's validation rules.
var ErrInvalidPayload = errors.New("invalid payload")

var (
	payloadValidator     *validator.Validate
	payloadValidatorOnce sync.Once
)

func getValidator() *validator.Validate {
	payloadValidatorOnce.Do(func() {
		payloadValidator = validator.New()
	})
	return payloadValidator
}

func stripDuplicateLeadingBrace(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return s
	}
	rest := strings.TrimSpace(s[1:])
	if strings.HasPrefix(rest, "{") {
		return rest
	}
	return s
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models emit even when asked for JSON only.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl != -1 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// GenerateSchema creates a JSON Schema from the given Go type.
// It uses reflection to inspect the type structure and generates
// a schema suitable for use with AI structured output.
func GenerateSchema(value any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	v := reflect.New(t).Interface()
	return reflector.Reflect(v)
}

// UnmarshalFlexible attempts to unmarshal JSON into the target with multiple fallback strategies.
// It first tries standard JSON unmarshaling, then handles double-encoded JSON strings
// and code fences, and finally attempts to repair malformed JSON before parsing.
//
// Example:
//
//	var result extractEventsResponse
//	UnmarshalFlexible(`{"events": []}`, &result)         // standard JSON
//	UnmarshalFlexible(`"{\"events\": []}"`, &result)     // double-encoded
//	UnmarshalFlexible("```json\n{events: []}\n```", &result) // fenced, repaired
func UnmarshalFlexible(input string, out any) error {
	input = strings.TrimSpace(input)

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	var asString string
	if err := json.Unmarshal([]byte(input), &asString); err == nil {
		asString = strings.TrimSpace(asString)
		if err := json.Unmarshal([]byte(asString), out); err == nil {
			return nil
		}
		input = asString
	}

	input = stripDuplicateLeadingBrace(stripCodeFence(input))
	repaired, err := jsonrepair.JSONRepair(input)
	if err != nil {
		return fmt.Errorf("json repair failed: %w (input: %s)", err, input)
	}

	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf(
			"unmarshal failed after repair: %w: input=%s repaired=%s",
			err, input, repaired,
		)
	}

	return nil
}

// ValidatePayload checks the `validate` struct tags of a decoded response.
// Errors wrap ErrInvalidPayload.
func ValidatePayload(payload any) error {
	if err := getValidator().Struct(payload); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPayload, err.Error())
	}
	return nil
}

// DecodePayload runs UnmarshalFlexible followed by ValidatePayload. Model
// adapters call it on the raw response content.
func DecodePayload(content string, out any) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: empty response", ErrInvalidPayload)
	}
	if err := UnmarshalFlexible(content, out); err != nil {
		return err
	}
	return ValidatePayload(out)
}
