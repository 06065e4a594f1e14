package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/storage"
	pgstore "ln-sim-viz/internal/storage/postgres"
)

func TestEdgeStatsStore_InsertBulkAndGetByRunID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	insertTestRun(t, pool, "run-es-1", 1000)

	store := pgstore.NewEdgeStatsStore(pool)
	ctx := context.Background()

	stats := []*domain.EdgeStatsRecord{
		{RunID: "run-es-1", EdgeID: 300, UsageCount: 5, FailureCount: 1},
		{RunID: "run-es-1", EdgeID: 100, UsageCount: 2, FailureCount: 0},
		{RunID: "run-es-1", EdgeID: 200, UsageCount: 7, FailureCount: 3},
	}
	err := store.InsertBulk(ctx, stats)
	require.NoError(t, err)

	result, err := store.GetByRunID(ctx, "run-es-1")
	require.NoError(t, err)

	// Ordered by edge_id ASC regardless of insert order.
	require.Len(t, result, 3)
	assert.Equal(t, int64(100), result[0].EdgeID)
	assert.Equal(t, int64(200), result[1].EdgeID)
	assert.Equal(t, int64(300), result[2].EdgeID)
	assert.Equal(t, int64(7), result[1].UsageCount)
	assert.Equal(t, int64(3), result[1].FailureCount)
}

func TestEdgeStatsStore_InsertBulkDuplicateRollsBack(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	insertTestRun(t, pool, "run-es-dup", 1000)

	store := pgstore.NewEdgeStatsStore(pool)
	ctx := context.Background()

	first := []*domain.EdgeStatsRecord{
		{RunID: "run-es-dup", EdgeID: 100, UsageCount: 1},
	}
	require.NoError(t, store.InsertBulk(ctx, first))

	// Second batch hits a duplicate on its second record; the whole batch
	// must roll back.
	second := []*domain.EdgeStatsRecord{
		{RunID: "run-es-dup", EdgeID: 200, UsageCount: 4},
		{RunID: "run-es-dup", EdgeID: 100, UsageCount: 9},
	}
	err := store.InsertBulk(ctx, second)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	result, err := store.GetByRunID(ctx, "run-es-dup")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, int64(100), result[0].EdgeID)
	assert.Equal(t, int64(1), result[0].UsageCount)
}

func TestEdgeStatsStore_InsertBulkEmpty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewEdgeStatsStore(pool)

	err := store.InsertBulk(context.Background(), nil)
	assert.NoError(t, err)
}

func TestEdgeStatsStore_GetByRunIDIsolation(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	insertTestRun(t, pool, "run-es-a", 1000)
	insertTestRun(t, pool, "run-es-b", 2000)

	store := pgstore.NewEdgeStatsStore(pool)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.EdgeStatsRecord{
		{RunID: "run-es-a", EdgeID: 100, UsageCount: 1},
		{RunID: "run-es-b", EdgeID: 100, UsageCount: 2},
		{RunID: "run-es-b", EdgeID: 200, UsageCount: 3},
	}))

	result, err := store.GetByRunID(ctx, "run-es-b")
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, int64(2), result[0].UsageCount)

	result, err = store.GetByRunID(ctx, "run-es-missing")
	require.NoError(t, err)
	assert.Empty(t, result)
}
