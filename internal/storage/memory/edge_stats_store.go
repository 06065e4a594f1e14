package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/storage"
)

// EdgeStatsStore is an in-memory implementation of storage.EdgeStatsStore.
type EdgeStatsStore struct {
	mu   sync.RWMutex
	data map[string]*domain.EdgeStatsRecord // keyed by composite key
}

// NewEdgeStatsStore creates a new in-memory edge stats store.
func NewEdgeStatsStore() *EdgeStatsStore {
	return &EdgeStatsStore{
		data: make(map[string]*domain.EdgeStatsRecord),
	}
}

// edgeStatsKey generates a unique key for a record.
func edgeStatsKey(runID string, edgeID int64) string {
	return fmt.Sprintf("%s|%d", runID, edgeID)
}

// InsertBulk adds multiple records atomically. Fails entire batch on any
// duplicate.
func (s *EdgeStatsStore) InsertBulk(_ context.Context, stats []*domain.EdgeStatsRecord) error {
	if len(stats) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(stats))

	for _, es := range stats {
		if es == nil || es.RunID == "" {
			return storage.ErrInvalidInput
		}
		key := edgeStatsKey(es.RunID, es.EdgeID)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, es := range stats {
		copy := *es
		s.data[edgeStatsKey(es.RunID, es.EdgeID)] = &copy
	}

	return nil
}

// GetByRunID retrieves all records for a run, ordered by edge_id ASC.
func (s *EdgeStatsStore) GetByRunID(_ context.Context, runID string) ([]*domain.EdgeStatsRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EdgeStatsRecord
	for _, es := range s.data {
		if es.RunID == runID {
			copy := *es
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].EdgeID < result[j].EdgeID
	})

	return result, nil
}

var _ storage.EdgeStatsStore = (*EdgeStatsStore)(nil)
