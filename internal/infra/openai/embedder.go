package openai

import (
	"context"
	"fmt"
	"math"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/bytebites/caigentan/internal/core/index"
)

const (
	// DefaultEmbeddingModel 是未指定时使用的默认 Embedding 模型
	DefaultEmbeddingModel = "text-embedding-3-small"
	// DefaultEmbeddingDimension 是默认的向量维度
	DefaultEmbeddingDimension = 512
	// maxEmbeddingBatch 是 Embedding API 单次请求的最大条数
	maxEmbeddingBatch = 100
)

// Embedder 调用 OpenAI 兼容的 Embedding API 把文本转换为向量。
// 返回的向量已做 L2 归一化，点积即余弦相似度。
type Embedder struct {
	client    openai.Client
	model     string
	dimension int
}

type embedderOptions struct {
	model     string
	dimension int
	baseURL   string
}

// EmbedderOption 是 Embedder 的选项设置
type EmbedderOption func(*embedderOptions)

// WithEmbeddingModel 覆盖模型名
func WithEmbeddingModel(model string) EmbedderOption {
	return func(o *embedderOptions) {
		o.model = model
	}
}

// WithEmbeddingDimension 覆盖向量维度
func WithEmbeddingDimension(dimension int) EmbedderOption {
	return func(o *embedderOptions) {
		o.dimension = dimension
	}
}

// WithEmbeddingBaseURL 指向 OpenAI 兼容服务的地址
func WithEmbeddingBaseURL(baseURL string) EmbedderOption {
	return func(o *embedderOptions) {
		o.baseURL = baseURL
	}
}

// NewEmbedder 创建一个新的 Embedder
func NewEmbedder(apiKey string, opts ...EmbedderOption) *Embedder {
	options := embedderOptions{
		model:     DefaultEmbeddingModel,
		dimension: DefaultEmbeddingDimension,
	}
	for _, opt := range opts {
		opt(&options)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if options.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(options.baseURL))
	}

	return &Embedder{
		client:    openai.NewClient(clientOpts...),
		model:     options.model,
		dimension: options.dimension,
	}
}

// Embed 生成单条文本的 Embedding
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings generated")
	}

	return embeddings[0], nil
}

// BatchEmbed 批量生成 Embedding（单次最多100条）
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	if len(texts) > maxEmbeddingBatch {
		return nil, fmt.Errorf("batch size exceeds maximum of %d", maxEmbeddingBatch)
	}

	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
	}

	if len(texts) == 1 {
		params.Input = openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(texts[0]),
		}
	} else {
		params.Input = openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		}
	}

	if e.dimension > 0 {
		params.Dimensions = openai.Int(int64(e.dimension))
	}

	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", wrapAPIError(err))
	}

	var embeddings [][]float32
	for _, data := range resp.Data {
		vector := make([]float32, len(data.Embedding))
		for i, v := range data.Embedding {
			vector[i] = float32(v)
		}
		embeddings = append(embeddings, normalize(vector))
	}

	return embeddings, nil
}

// normalize 对向量做 L2 归一化；零向量原样返回
func normalize(vector []float32) []float32 {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vector
	}

	norm := float32(math.Sqrt(sum))
	for i := range vector {
		vector[i] /= norm
	}
	return vector
}

// ModelName 返回模型名
func (e *Embedder) ModelName() string {
	return e.model
}

// Dimension 返回向量维度
func (e *Embedder) Dimension() int {
	return e.dimension
}

// MaxBatchSize 返回单次批量请求的最大条数
func (e *Embedder) MaxBatchSize() int {
	return maxEmbeddingBatch
}

// 接口实现检查
var _ index.Embedder = (*Embedder)(nil)
