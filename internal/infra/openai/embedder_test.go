package openai

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEmbedderOptionsOverrideDefaults(t *testing.T) {
	embedder := NewEmbedder("dummy-key",
		WithEmbeddingModel("custom-model"),
		WithEmbeddingDimension(42),
	)

	assert.Equal(t, "custom-model", embedder.ModelName())
	assert.Equal(t, 42, embedder.Dimension())
	assert.Equal(t, 100, embedder.MaxBatchSize())
}

func TestNormalize_UnitLength(t *testing.T) {
	vector := normalize([]float32{3, 4})

	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
	assert.InDelta(t, 0.6, float64(vector[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(vector[1]), 1e-6)
}

func TestNormalize_ZeroVectorUnchanged(t *testing.T) {
	vector := normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, vector)
}

func TestBatchEmbed_RejectsOversizedBatch(t *testing.T) {
	embedder := NewEmbedder("dummy-key")

	texts := make([]string, 101)
	for i := range texts {
		texts[i] = "text"
	}

	_, err := embedder.BatchEmbed(context.Background(), texts)
	assert.Error(t, err)
}

func TestBatchEmbed_RejectsEmptyInput(t *testing.T) {
	embedder := NewEmbedder("dummy-key")

	_, err := embedder.BatchEmbed(context.Background(), nil)
	assert.Error(t, err)
}

func TestAPICallError_Transient(t *testing.T) {
	assert.True(t, (&APICallError{StatusCode: 429}).Transient())
	assert.True(t, (&APICallError{StatusCode: 503}).Transient())
	assert.False(t, (&APICallError{StatusCode: 401}).Transient())
	assert.True(t, (&APICallError{Err: context.DeadlineExceeded}).Transient())
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, ErrAPIKeyNotSet)
}
