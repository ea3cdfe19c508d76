package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytebites/caigentan/internal/core/catalog"
	"github.com/bytebites/caigentan/internal/core/index"
)

func TestStore_AddEmptyEntriesIsNoop(t *testing.T) {
	store := NewStore(nil, 2)
	assert.NoError(t, store.Add(context.Background(), nil))
	assert.NoError(t, store.Add(context.Background(), []index.Entry{}))
}

func TestStore_AddRejectsDimensionMismatch(t *testing.T) {
	store := NewStore(nil, 2)
	entries := []index.Entry{
		{Record: &catalog.RestaurantRecord{ID: "r1"}, Vector: []float32{1, 0, 0}},
	}

	err := store.Add(context.Background(), entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestStore_SearchRejectsDimensionMismatch(t *testing.T) {
	store := NewStore(nil, 2)

	_, err := store.Search(context.Background(), []float32{1}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestStore_SearchNonPositiveKReturnsEmpty(t *testing.T) {
	store := NewStore(nil, 2)

	results, err := store.Search(context.Background(), []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = store.Search(context.Background(), []float32{1, 0}, -1)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// integrationStore 连接 TEST_DATABASE_URL 指定的数据库并重建数据表。
// 环境变量未设置时跳过测试。
func integrationStore(t *testing.T, dimension int) *Store {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS restaurant_vectors`)
	require.NoError(t, err)

	store := NewStore(pool, dimension)
	require.NoError(t, store.EnsureSchema(ctx))
	return store
}

func indexEntry(id string, vector []float32) index.Entry {
	return index.Entry{
		Record: &catalog.RestaurantRecord{
			ID:            id,
			Name:          id,
			CanonicalText: fmt.Sprintf("name=%s", id),
			Metadata:      map[string]string{"name": id},
		},
		Vector: vector,
	}
}

func TestStoreIntegration_AddAndCount(t *testing.T) {
	store := integrationStore(t, 2)
	ctx := context.Background()

	entries := []index.Entry{
		indexEntry("r1", []float32{1, 0}),
		indexEntry("r2", []float32{0, 1}),
	}
	require.NoError(t, store.Add(ctx, entries))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStoreIntegration_UpsertOverwritesByID(t *testing.T) {
	store := integrationStore(t, 2)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []index.Entry{indexEntry("r1", []float32{0, 1})}))
	require.NoError(t, store.Add(ctx, []index.Entry{indexEntry("r1", []float32{1, 0})}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := store.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "r1", results[0].Record.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestStoreIntegration_SearchOrdersByScoreThenPosition(t *testing.T) {
	store := integrationStore(t, 2)
	ctx := context.Background()

	// r2 和 r3 向量相同，入库更早的 r2 应排在前面
	entries := []index.Entry{
		indexEntry("r1", []float32{0, 1}),
		indexEntry("r2", []float32{1, 0}),
		indexEntry("r3", []float32{1, 0}),
	}
	require.NoError(t, store.Add(ctx, entries))

	results, err := store.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "r2", results[0].Record.ID)
	assert.Equal(t, "r3", results[1].Record.ID)
	assert.Equal(t, "r1", results[2].Record.ID)
	assert.Greater(t, results[0].Score, results[2].Score)
	assert.Equal(t, map[string]string{"name": "r2"}, results[0].Record.Metadata)
}
