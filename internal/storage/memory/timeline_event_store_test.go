package memory

import (
	"context"
	"errors"
	"testing"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/storage"
)

func TestTimelineEventStore_InsertBulkAndGet(t *testing.T) {
	store := NewTimelineEventStore()
	ctx := context.Background()

	events := []*domain.TimelineEventRecord{
		{RunID: "run1", Seq: 2, Time: 300, Type: "success", PaymentID: 1, RouteEdges: []int64{10, 20}},
		{RunID: "run1", Seq: 0, Time: 100, Type: "start", PaymentID: 1, AttemptIndex: -1},
		{RunID: "run1", Seq: 1, Time: 200, Type: "attempt", PaymentID: 1, RouteEdges: []int64{10, 20}},
		{RunID: "run2", Seq: 0, Time: 50, Type: "start", PaymentID: 2, AttemptIndex: -1},
	}

	if err := store.InsertBulk(ctx, events); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(got))
	}
	// Ordered by seq ASC.
	for i, ev := range got {
		if ev.Seq != i {
			t.Errorf("Position %d has seq %d", i, ev.Seq)
		}
	}
	if got[2].Type != "success" {
		t.Errorf("Type mismatch: got %q, want %q", got[2].Type, "success")
	}
}

func TestTimelineEventStore_DuplicateSeq(t *testing.T) {
	store := NewTimelineEventStore()
	ctx := context.Background()

	first := []*domain.TimelineEventRecord{{RunID: "run1", Seq: 0, Type: "start"}}
	if err := store.InsertBulk(ctx, first); err != nil {
		t.Fatalf("First InsertBulk failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.TimelineEventRecord{{RunID: "run1", Seq: 0, Type: "attempt"}})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTimelineEventStore_RouteEdgesCopied(t *testing.T) {
	store := NewTimelineEventStore()
	ctx := context.Background()

	route := []int64{10, 20}
	events := []*domain.TimelineEventRecord{{RunID: "run1", Seq: 0, Type: "attempt", RouteEdges: route}}
	if err := store.InsertBulk(ctx, events); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	// Mutating the caller's slice must not leak into the store.
	route[0] = 999

	got, _ := store.GetByRunID(ctx, "run1")
	if got[0].RouteEdges[0] != 10 {
		t.Errorf("Stored route was mutated: got %d, want 10", got[0].RouteEdges[0])
	}
}

func TestTimelineEventStore_EmptyRun(t *testing.T) {
	store := NewTimelineEventStore()

	got, err := store.GetByRunID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no events, got %d", len(got))
	}
}
