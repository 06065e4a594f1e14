package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/storage"
)

// EdgeStatsStore implements storage.EdgeStatsStore using PostgreSQL.
type EdgeStatsStore struct {
	pool *Pool
}

// NewEdgeStatsStore creates a new EdgeStatsStore.
func NewEdgeStatsStore(pool *Pool) *EdgeStatsStore {
	return &EdgeStatsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EdgeStatsStore = (*EdgeStatsStore)(nil)

// InsertBulk adds multiple records atomically. Fails entire batch on any
// duplicate.
func (s *EdgeStatsStore) InsertBulk(ctx context.Context, stats []*domain.EdgeStatsRecord) error {
	if len(stats) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO edge_stats (run_id, edge_id, usage_count, failure_count)
		VALUES ($1, $2, $3, $4)
	`

	for _, es := range stats {
		_, err := tx.Exec(ctx, query,
			es.RunID,
			es.EdgeID,
			es.UsageCount,
			es.FailureCount,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert edge stats in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRunID retrieves all records for a run, ordered by edge_id ASC.
func (s *EdgeStatsStore) GetByRunID(ctx context.Context, runID string) ([]*domain.EdgeStatsRecord, error) {
	query := `
		SELECT run_id, edge_id, usage_count, failure_count
		FROM edge_stats
		WHERE run_id = $1
		ORDER BY edge_id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get edge stats by run id: %w", err)
	}
	defer rows.Close()

	return scanEdgeStats(rows)
}

// scanEdgeStats scans multiple rows into a slice of EdgeStatsRecord.
func scanEdgeStats(rows pgx.Rows) ([]*domain.EdgeStatsRecord, error) {
	var stats []*domain.EdgeStatsRecord

	for rows.Next() {
		var es domain.EdgeStatsRecord

		err := rows.Scan(
			&es.RunID,
			&es.EdgeID,
			&es.UsageCount,
			&es.FailureCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan edge stats row: %w", err)
		}

		stats = append(stats, &es)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edge stats rows: %w", err)
	}

	return stats, nil
}
