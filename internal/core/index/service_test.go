package index

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytebites/caigentan/internal/core/catalog"
)

// stubEmbedder 按调用次序返回固定向量，failBatches 中的批次返回错误
type stubEmbedder struct {
	batchCalls  int
	failBatches map[int]bool
	maxBatch    int
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (e *stubEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	call := e.batchCalls
	e.batchCalls++
	if e.failBatches[call] {
		return nil, errors.New("embedding backend unavailable")
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

func (e *stubEmbedder) MaxBatchSize() int {
	if e.maxBatch > 0 {
		return e.maxBatch
	}
	return 100
}

func testRecords(n int) []*catalog.RestaurantRecord {
	records := make([]*catalog.RestaurantRecord, n)
	for i := range records {
		records[i] = &catalog.RestaurantRecord{
			ID:            string(rune('a' + i)),
			Name:          string(rune('a' + i)),
			CanonicalText: "text",
		}
	}
	return records
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_EmbedAndIndexBatches(t *testing.T) {
	embedder := &stubEmbedder{}
	store := NewMemoryStore()
	svc := NewService(store, embedder, WithBatchSize(2), WithIndexLogger(testLogger()))

	result, err := svc.EmbedAndIndex(context.Background(), testRecords(5))
	require.NoError(t, err)

	assert.Equal(t, 5, result.Indexed)
	assert.Empty(t, result.FailedBatches)
	assert.Equal(t, 3, embedder.batchCalls) // 2+2+1

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestService_FailedBatchSkippedWithoutCorruptingState(t *testing.T) {
	embedder := &stubEmbedder{failBatches: map[int]bool{1: true}}
	store := NewMemoryStore()
	svc := NewService(store, embedder, WithBatchSize(2), WithIndexLogger(testLogger()))

	result, err := svc.EmbedAndIndex(context.Background(), testRecords(6))
	require.NoError(t, err)

	assert.Equal(t, 4, result.Indexed) // 批次 0 和批次 2 成功
	require.Len(t, result.FailedBatches, 1)
	assert.Equal(t, 1, result.FailedBatches[0].Batch)
	assert.Equal(t, 2, result.FailedBatches[0].Size)

	var batchErr *EmbeddingBatchError
	assert.ErrorAs(t, result.FailedBatches[0], &batchErr)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestService_BatchSizeClippedByEmbedderMax(t *testing.T) {
	embedder := &stubEmbedder{maxBatch: 3}
	svc := NewService(NewMemoryStore(), embedder, WithBatchSize(100), WithIndexLogger(testLogger()))

	_, err := svc.EmbedAndIndex(context.Background(), testRecords(7))
	require.NoError(t, err)
	assert.Equal(t, 3, embedder.batchCalls) // 3+3+1
}

func TestService_QueryZeroKSkipsEmbedding(t *testing.T) {
	embedder := &stubEmbedder{}
	svc := NewService(NewMemoryStore(), embedder, WithIndexLogger(testLogger()))

	results, err := svc.Query(context.Background(), "便宜的面食", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestService_QueryNegativeKRejected(t *testing.T) {
	svc := NewService(NewMemoryStore(), &stubEmbedder{}, WithIndexLogger(testLogger()))

	_, err := svc.Query(context.Background(), "火锅", -1)
	require.Error(t, err)
}
