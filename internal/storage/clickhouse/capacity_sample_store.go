package clickhouse

import (
	"context"
	"fmt"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/storage"
)

// CapacitySampleStore implements storage.CapacitySampleStore using
// ClickHouse.
type CapacitySampleStore struct {
	conn *Conn
}

// NewCapacitySampleStore creates a new CapacitySampleStore.
func NewCapacitySampleStore(conn *Conn) *CapacitySampleStore {
	return &CapacitySampleStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CapacitySampleStore = (*CapacitySampleStore)(nil)

// InsertBulk adds multiple samples. Fails entire batch on duplicate
// (run_id, edge_id, time, payment_id). MergeTree does not enforce
// uniqueness, so duplicates are detected with explicit checks.
func (s *CapacitySampleStore) InsertBulk(ctx context.Context, samples []*domain.CapacitySampleRecord) error {
	if len(samples) == 0 {
		return nil
	}

	type key struct {
		runID     string
		edgeID    int64
		time      int64
		paymentID int64
	}
	seen := make(map[key]struct{})
	for _, cs := range samples {
		k := key{cs.RunID, cs.EdgeID, cs.Time, cs.PaymentID}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, cs := range samples {
		exists, err := s.exists(ctx, cs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO capacity_samples (
			run_id, edge_id, time, capacity, payment_id, sent_amt
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, cs := range samples {
		err = batch.Append(
			cs.RunID, cs.EdgeID, cs.Time, cs.Capacity, cs.PaymentID, cs.SentAmt,
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

// GetByRunEdge retrieves samples for one edge of a run, ordered by time ASC.
func (s *CapacitySampleStore) GetByRunEdge(ctx context.Context, runID string, edgeID int64) ([]*domain.CapacitySampleRecord, error) {
	query := `
		SELECT run_id, edge_id, time, capacity, payment_id, sent_amt
		FROM capacity_samples
		WHERE run_id = ? AND edge_id = ?
		ORDER BY time ASC, payment_id ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, edgeID)
	if err != nil {
		return nil, fmt.Errorf("query by run edge: %w", err)
	}
	defer rows.Close()

	return scanCapacitySamples(rows)
}

// exists checks if a sample with the given key exists.
func (s *CapacitySampleStore) exists(ctx context.Context, cs *domain.CapacitySampleRecord) (bool, error) {
	query := `
		SELECT count(*) FROM capacity_samples
		WHERE run_id = ? AND edge_id = ? AND time = ? AND payment_id = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, cs.RunID, cs.EdgeID, cs.Time, cs.PaymentID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanCapacitySamples scans multiple rows.
func scanCapacitySamples(rows chRows) ([]*domain.CapacitySampleRecord, error) {
	var samples []*domain.CapacitySampleRecord

	for rows.Next() {
		var cs domain.CapacitySampleRecord

		err := rows.Scan(
			&cs.RunID, &cs.EdgeID, &cs.Time, &cs.Capacity, &cs.PaymentID, &cs.SentAmt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan capacity sample row: %w", err)
		}

		samples = append(samples, &cs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate capacity sample rows: %w", err)
	}

	return samples, nil
}
