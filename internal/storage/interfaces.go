// Package storage defines the persistence interfaces for the run archive
// and the derived-series analytics stores. Implementations live in the
// memory, postgres and clickhouse subpackages.
package storage

import (
	"context"

	"ln-sim-viz/internal/domain"
)

// RunStore provides access to archived simulation runs.
type RunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.Run) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.Run, error)

	// GetAll retrieves all runs, ordered by loaded_at DESC.
	GetAll(ctx context.Context) ([]*domain.Run, error)
}

// EdgeStatsStore provides access to per-run edge aggregates.
type EdgeStatsStore interface {
	// InsertBulk adds multiple records atomically. Fails entire batch on
	// any duplicate (run_id, edge_id).
	InsertBulk(ctx context.Context, stats []*domain.EdgeStatsRecord) error

	// GetByRunID retrieves all records for a run, ordered by edge_id ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.EdgeStatsRecord, error)
}

// CapacitySampleStore provides access to per-run capacity observations.
type CapacitySampleStore interface {
	// InsertBulk adds multiple samples. Fails entire batch on duplicate
	// (run_id, edge_id, time, payment_id).
	InsertBulk(ctx context.Context, samples []*domain.CapacitySampleRecord) error

	// GetByRunEdge retrieves samples for one edge of a run, ordered by
	// time ASC.
	GetByRunEdge(ctx context.Context, runID string, edgeID int64) ([]*domain.CapacitySampleRecord, error)
}

// TimelineEventStore provides access to per-run derived event streams.
type TimelineEventStore interface {
	// InsertBulk adds multiple events. Fails entire batch on duplicate
	// (run_id, seq).
	InsertBulk(ctx context.Context, events []*domain.TimelineEventRecord) error

	// GetByRunID retrieves all events of a run, ordered by seq ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.TimelineEventRecord, error)
}
