package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/storage"
)

// TimelineEventStore is an in-memory implementation of
// storage.TimelineEventStore.
type TimelineEventStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TimelineEventRecord // keyed by composite key
}

// NewTimelineEventStore creates a new in-memory timeline event store.
func NewTimelineEventStore() *TimelineEventStore {
	return &TimelineEventStore{
		data: make(map[string]*domain.TimelineEventRecord),
	}
}

// timelineEventKey generates a unique key for an event.
func timelineEventKey(runID string, seq int) string {
	return fmt.Sprintf("%s|%d", runID, seq)
}

// InsertBulk adds multiple events. Fails entire batch on any duplicate.
func (s *TimelineEventStore) InsertBulk(_ context.Context, events []*domain.TimelineEventRecord) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(events))

	for _, ev := range events {
		if ev == nil || ev.RunID == "" {
			return storage.ErrInvalidInput
		}
		key := timelineEventKey(ev.RunID, ev.Seq)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, ev := range events {
		copy := *ev
		copy.RouteEdges = append([]int64(nil), ev.RouteEdges...)
		s.data[timelineEventKey(ev.RunID, ev.Seq)] = &copy
	}

	return nil
}

// GetByRunID retrieves all events of a run, ordered by seq ASC.
func (s *TimelineEventStore) GetByRunID(_ context.Context, runID string) ([]*domain.TimelineEventRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TimelineEventRecord
	for _, ev := range s.data {
		if ev.RunID == runID {
			copy := *ev
			copy.RouteEdges = append([]int64(nil), ev.RouteEdges...)
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})

	return result, nil
}

var _ storage.TimelineEventStore = (*TimelineEventStore)(nil)
