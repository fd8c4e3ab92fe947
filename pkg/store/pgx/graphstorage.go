package pgx

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/kiwi-ke/internal/util"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/common"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/logger"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
)

const (
	insertRunSQL = `INSERT INTO extraction_runs (topic, status) VALUES ($1, $2) RETURNING id`

	insertEventSQL = `INSERT INTO key_events
	(id, run_id, name, description, event_type, biological_level, organ, reference)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	insertRelationshipSQL = `INSERT INTO key_event_relationships
	(id, run_id, source_event_id, target_event_id, relationship_type, evidence_strength, evidence_justification)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	insertEvidenceSQL = `INSERT INTO key_event_evidence
	(id, run_id, relationship_id, source_id, reference)
	VALUES ($1, $2, $3, $4, $5)`
)

const batchSize = 1000

type pgxIConn interface {
	Begin(ctx context.Context) (pgxv5.Tx, error)
	Ping(ctx context.Context) error
}

// GraphDBStorage stores extraction results in PostgreSQL. Each result is
// written in a single transaction.
type GraphDBStorage struct {
	conn pgxIConn
}

var _ store.GraphStorage = (*GraphDBStorage)(nil)

// NewGraphDBStorageWithConnection creates a new GraphDBStorage using an
// existing connection or pool. The connection is pinged, with retries, before
// the storage is returned.
func NewGraphDBStorageWithConnection(ctx context.Context, conn pgxIConn) (*GraphDBStorage, error) {
	err := util.RetryErrWithContext(ctx, 3, func(ctx context.Context) error {
		return conn.Ping(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("database not reachable: %w", err)
	}
	return &GraphDBStorage{conn: conn}, nil
}

type queuedRow struct {
	sql  string
	args []any
}

func resultRows(runID int64, result *common.ExtractionResult) []queuedRow {
	rows := make([]queuedRow, 0, len(result.Events)+len(result.Relationships)+len(result.Evidence))
	for _, e := range result.Events {
		rows = append(rows, queuedRow{insertEventSQL, []any{
			e.ID, runID, e.Name, e.Description, string(e.EventType), string(e.BiologicalLevel), e.Organ, e.Reference,
		}})
	}
	for _, r := range result.Relationships {
		rows = append(rows, queuedRow{insertRelationshipSQL, []any{
			r.ID, runID, r.SourceEventID, r.TargetEventID, r.Type, r.EvidenceStrength, r.EvidenceJustification,
		}})
	}
	for _, ev := range result.Evidence {
		rows = append(rows, queuedRow{insertEvidenceSQL, []any{
			ev.ID, runID, ev.RelationshipID, ev.SourceID, ev.Reference,
		}})
	}
	return rows
}

// SaveResult stores result as a new extraction run for topic. Events are
// inserted before the relationships and evidence referencing them.
func (s *GraphDBStorage) SaveResult(ctx context.Context, topic string, result *common.ExtractionResult) error {
	if result == nil {
		return nil
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var runID int64
	if err := tx.QueryRow(ctx, insertRunSQL, topic, string(result.Status)).Scan(&runID); err != nil {
		return fmt.Errorf("failed to create extraction run: %w", err)
	}

	rows := resultRows(runID, result)
	logger.Debug("[Store][SaveResult] Inserting rows", "run", runID, "rows", len(rows))

	err = store.ChunkRange(len(rows), batchSize, func(start, end int) error {
		batch := &pgxv5.Batch{}
		for _, row := range rows[start:end] {
			batch.Queue(row.sql, row.args...)
		}

		br := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to insert row %d: %w", start+i, err)
			}
		}
		return br.Close()
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	logger.Info(
		"[Store] Saved extraction result",
		"run", runID,
		"topic", topic,
		"events", len(result.Events),
		"relationships", len(result.Relationships),
	)
	return nil
}
