package graph

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmptyDocument            = errors.New("empty document")
	ErrNoEventsExtracted        = errors.New("no events extracted")
	ErrNoRelationshipsExtracted = errors.New("no relationships extracted")
)

// ConfigError reports an invalid extraction input. It is returned directly
// by Extract and never becomes part of an ExtractionResult.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ErrorKind classifies why a document run terminated.
type ErrorKind string

const (
	ErrorKindEmptyDocument            ErrorKind = "empty_document"
	ErrorKindAcquisitionFailed        ErrorKind = "acquisition_failed"
	ErrorKindNoEventsExtracted        ErrorKind = "no_events_extracted"
	ErrorKindNoRelationshipsExtracted ErrorKind = "no_relationships_extracted"
	ErrorKindUnexpected               ErrorKind = "unexpected"
	ErrorKindCanceled                 ErrorKind = "canceled"
)

// DocumentError describes a document whose pipeline ended in the errored
// state. Stage is the last stage the document was in when it failed.
type DocumentError struct {
	Path    string    `json:"path"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Stage   Stage     `json:"stage"`
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %s at stage %s: %s", e.Path, e.Kind, e.Stage, e.Message)
}

// classifyError maps a pipeline fault onto an ErrorKind. Faults during text
// acquisition that are not otherwise classified are acquisition failures.
func classifyError(stage Stage, err error) ErrorKind {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorKindCanceled
	case errors.Is(err, ErrEmptyDocument):
		return ErrorKindEmptyDocument
	case errors.Is(err, ErrNoEventsExtracted):
		return ErrorKindNoEventsExtracted
	case errors.Is(err, ErrNoRelationshipsExtracted):
		return ErrorKindNoRelationshipsExtracted
	case stage == StageStart:
		return ErrorKindAcquisitionFailed
	default:
		return ErrorKindUnexpected
	}
}
