package store

import (
	"context"

	"github.com/OFFIS-RIT/kiwi-ke/pkg/common"
)

// GraphStorage persists finished extraction results. Every call stores one
// result as a new run; nothing is merged with earlier runs.
type GraphStorage interface {
	SaveResult(ctx context.Context, topic string, result *common.ExtractionResult) error
}
