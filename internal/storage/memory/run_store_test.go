package memory

import (
	"context"
	"errors"
	"testing"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/storage"
)

func TestRunStore_InsertAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	run := &domain.Run{
		RunID:        "run1",
		Name:         "baseline",
		SourceDir:    "/data/baseline",
		LoadedAt:     1000,
		PaymentCount: 42,
	}

	err := store.Insert(ctx, run)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.PaymentCount != 42 {
		t.Errorf("PaymentCount mismatch: got %d, want 42", got.PaymentCount)
	}
	if got.Name != "baseline" {
		t.Errorf("Name mismatch: got %q, want %q", got.Name, "baseline")
	}
}

func TestRunStore_DuplicateKey(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	run := &domain.Run{RunID: "run1", Name: "a", LoadedAt: 1000}

	if err := store.Insert(ctx, run); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, run)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestRunStore_NotFound(t *testing.T) {
	store := NewRunStore()

	_, err := store.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRunStore_InvalidInput(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil run, got %v", err)
	}
	if err := store.Insert(ctx, &domain.Run{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty run_id, got %v", err)
	}
}

func TestRunStore_GetAllOrdering(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	runs := []*domain.Run{
		{RunID: "run-old", LoadedAt: 1000},
		{RunID: "run-new", LoadedAt: 3000},
		{RunID: "run-mid", LoadedAt: 2000},
	}
	for _, r := range runs {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(got))
	}
	want := []string{"run-new", "run-mid", "run-old"}
	for i, id := range want {
		if got[i].RunID != id {
			t.Errorf("Position %d: got %q, want %q", i, got[i].RunID, id)
		}
	}
}

func TestRunStore_CopyOnRead(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.Run{RunID: "run1", Name: "original"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, _ := store.GetByID(ctx, "run1")
	got.Name = "mutated"

	again, _ := store.GetByID(ctx, "run1")
	if again.Name != "original" {
		t.Errorf("Store data was mutated through returned copy: %q", again.Name)
	}
}
