package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/storage"
)

// CapacitySampleStore is an in-memory implementation of
// storage.CapacitySampleStore.
type CapacitySampleStore struct {
	mu   sync.RWMutex
	data map[string]*domain.CapacitySampleRecord // keyed by composite key
}

// NewCapacitySampleStore creates a new in-memory capacity sample store.
func NewCapacitySampleStore() *CapacitySampleStore {
	return &CapacitySampleStore{
		data: make(map[string]*domain.CapacitySampleRecord),
	}
}

// capacitySampleKey generates a unique key for a sample.
func capacitySampleKey(runID string, edgeID, time, paymentID int64) string {
	return fmt.Sprintf("%s|%d|%d|%d", runID, edgeID, time, paymentID)
}

// InsertBulk adds multiple samples. Fails entire batch on any duplicate.
func (s *CapacitySampleStore) InsertBulk(_ context.Context, samples []*domain.CapacitySampleRecord) error {
	if len(samples) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(samples))

	for _, cs := range samples {
		if cs == nil || cs.RunID == "" {
			return storage.ErrInvalidInput
		}
		key := capacitySampleKey(cs.RunID, cs.EdgeID, cs.Time, cs.PaymentID)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, cs := range samples {
		copy := *cs
		s.data[capacitySampleKey(cs.RunID, cs.EdgeID, cs.Time, cs.PaymentID)] = &copy
	}

	return nil
}

// GetByRunEdge retrieves samples for one edge of a run, ordered by time ASC.
func (s *CapacitySampleStore) GetByRunEdge(_ context.Context, runID string, edgeID int64) ([]*domain.CapacitySampleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.CapacitySampleRecord
	for _, cs := range s.data {
		if cs.RunID == runID && cs.EdgeID == edgeID {
			copy := *cs
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Time != result[j].Time {
			return result[i].Time < result[j].Time
		}
		return result[i].PaymentID < result[j].PaymentID
	})

	return result, nil
}

var _ storage.CapacitySampleStore = (*CapacitySampleStore)(nil)
