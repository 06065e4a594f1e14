package clickhouse

import (
	"context"
	"fmt"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/storage"
)

// TimelineEventStore implements storage.TimelineEventStore using
// ClickHouse. Route edges are stored as an Array(Int64) column.
type TimelineEventStore struct {
	conn *Conn
}

// NewTimelineEventStore creates a new TimelineEventStore.
func NewTimelineEventStore(conn *Conn) *TimelineEventStore {
	return &TimelineEventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TimelineEventStore = (*TimelineEventStore)(nil)

// InsertBulk adds multiple events. Fails entire batch on duplicate
// (run_id, seq).
func (s *TimelineEventStore) InsertBulk(ctx context.Context, events []*domain.TimelineEventRecord) error {
	if len(events) == 0 {
		return nil
	}

	type key struct {
		runID string
		seq   int
	}
	seen := make(map[key]struct{})
	for _, ev := range events {
		k := key{ev.RunID, ev.Seq}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// One existence probe per run in the batch; event streams are written
	// whole, so any overlap means the run was already archived.
	probed := make(map[string]struct{})
	for _, ev := range events {
		if _, ok := probed[ev.RunID]; ok {
			continue
		}
		probed[ev.RunID] = struct{}{}
		exists, err := s.runExists(ctx, ev.RunID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO timeline_events (
			run_id, seq, time, type, payment_id, attempt_index, route_edges, error_edge
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, ev := range events {
		err = batch.Append(
			ev.RunID, uint32(ev.Seq), ev.Time, ev.Type,
			ev.PaymentID, int32(ev.AttemptIndex), ev.RouteEdges, ev.ErrorEdgeID,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves all events of a run, ordered by seq ASC.
func (s *TimelineEventStore) GetByRunID(ctx context.Context, runID string) ([]*domain.TimelineEventRecord, error) {
	query := `
		SELECT run_id, seq, time, type, payment_id, attempt_index, route_edges, error_edge
		FROM timeline_events
		WHERE run_id = ?
		ORDER BY seq ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	return scanTimelineEvents(rows)
}

// runExists checks if any events are stored for the run.
func (s *TimelineEventStore) runExists(ctx context.Context, runID string) (bool, error) {
	query := `SELECT count(*) FROM timeline_events WHERE run_id = ?`

	var count uint64
	err := s.conn.QueryRow(ctx, query, runID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanTimelineEvents scans multiple rows.
func scanTimelineEvents(rows chRows) ([]*domain.TimelineEventRecord, error) {
	var events []*domain.TimelineEventRecord

	for rows.Next() {
		var ev domain.TimelineEventRecord
		var seq uint32
		var attemptIndex int32

		err := rows.Scan(
			&ev.RunID, &seq, &ev.Time, &ev.Type,
			&ev.PaymentID, &attemptIndex, &ev.RouteEdges, &ev.ErrorEdgeID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan timeline event row: %w", err)
		}

		ev.Seq = int(seq)
		ev.AttemptIndex = int(attemptIndex)
		events = append(events, &ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline event rows: %w", err)
	}

	return events, nil
}
