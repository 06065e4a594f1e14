package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, r *domain.Run) error {
	query := `
		INSERT INTO runs (
			run_id, name, source_dir, loaded_at, node_count, channel_count,
			edge_count, payment_count, event_count, config_json
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID,
		r.Name,
		r.SourceDir,
		r.LoadedAt,
		r.NodeCount,
		r.ChannelCount,
		r.EdgeCount,
		r.PaymentCount,
		r.EventCount,
		r.ConfigJSON,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.Run, error) {
	query := `
		SELECT run_id, name, source_dir, loaded_at, node_count, channel_count,
		       edge_count, payment_count, event_count, config_json
		FROM runs
		WHERE run_id = $1
	`

	var r domain.Run
	err := s.pool.QueryRow(ctx, query, runID).Scan(
		&r.RunID,
		&r.Name,
		&r.SourceDir,
		&r.LoadedAt,
		&r.NodeCount,
		&r.ChannelCount,
		&r.EdgeCount,
		&r.PaymentCount,
		&r.EventCount,
		&r.ConfigJSON,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return &r, nil
}

// GetAll retrieves all runs, ordered by loaded_at DESC.
func (s *RunStore) GetAll(ctx context.Context) ([]*domain.Run, error) {
	query := `
		SELECT run_id, name, source_dir, loaded_at, node_count, channel_count,
		       edge_count, payment_count, event_count, config_json
		FROM runs
		ORDER BY loaded_at DESC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// scanRuns scans multiple rows into a slice of Run.
func scanRuns(rows pgx.Rows) ([]*domain.Run, error) {
	var runs []*domain.Run

	for rows.Next() {
		var r domain.Run

		err := rows.Scan(
			&r.RunID,
			&r.Name,
			&r.SourceDir,
			&r.LoadedAt,
			&r.NodeCount,
			&r.ChannelCount,
			&r.EdgeCount,
			&r.PaymentCount,
			&r.EventCount,
			&r.ConfigJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		runs = append(runs, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return runs, nil
}
