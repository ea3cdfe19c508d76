package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bytebites/caigentan/internal/core/catalog"
)

const (
	// DefaultBatchSize 是 Embedding 生成的默认批大小（控制内存占用）
	DefaultBatchSize = 100

	// DefaultTopK 是检索的默认返回条数
	DefaultTopK = 20
)

// Embedder 是文本 Embedding 生成接口。
// 返回的向量必须是 L2 归一化后的定长向量。
type Embedder interface {
	// Embed 生成单条文本的 Embedding
	Embed(ctx context.Context, text string) ([]float32, error)

	// BatchEmbed 批量生成 Embedding，返回顺序与输入一致
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)

	// MaxBatchSize 返回单次批量调用允许的最大条数
	MaxBatchSize() int
}

// Service 提供餐厅记录的嵌入入库与语义检索
type Service struct {
	store     Store
	embedder  Embedder
	batchSize int
	logger    *slog.Logger
}

type serviceOptions struct {
	batchSize int
	logger    *slog.Logger
}

// ServiceOption 是 Service 的选项设置
type ServiceOption func(*serviceOptions)

// WithBatchSize 覆盖 Embedding 批大小
func WithBatchSize(size int) ServiceOption {
	return func(o *serviceOptions) {
		o.batchSize = size
	}
}

// WithIndexLogger 设置 Service 使用的日志器
func WithIndexLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// NewService 创建一个新的索引 Service
func NewService(store Store, embedder Embedder, opts ...ServiceOption) *Service {
	options := serviceOptions{
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.batchSize <= 0 {
		options.batchSize = DefaultBatchSize
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	// 批大小受 Embedder 上限约束
	if max := embedder.MaxBatchSize(); max > 0 && options.batchSize > max {
		options.batchSize = max
	}

	return &Service{
		store:     store,
		embedder:  embedder,
		batchSize: options.batchSize,
		logger:    options.logger,
	}
}

// EmbedAndIndex 按固定批大小嵌入记录并合并进索引。
// 单个批次失败只跳过该批次（记录进 IngestResult.FailedBatches 并打日志），
// 不会回滚或污染已合并的索引状态，也不做自动重试。
func (s *Service) EmbedAndIndex(ctx context.Context, records []*catalog.RestaurantRecord) (*IngestResult, error) {
	result := &IngestResult{}

	for batch := 0; batch*s.batchSize < len(records); batch++ {
		start := batch * s.batchSize
		end := start + s.batchSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		texts := make([]string, len(chunk))
		for i, r := range chunk {
			texts[i] = r.CanonicalText
		}

		vectors, err := s.embedder.BatchEmbed(ctx, texts)
		if err == nil && len(vectors) != len(chunk) {
			err = fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(chunk))
		}
		if err != nil {
			batchErr := &EmbeddingBatchError{Batch: batch, Size: len(chunk), Err: err}
			result.FailedBatches = append(result.FailedBatches, batchErr)
			s.logger.Error("Embedding 批次失败，跳过该批次", "batch", batch, "size", len(chunk), "error", err)
			continue
		}

		entries := make([]Entry, len(chunk))
		for i := range chunk {
			entries[i] = Entry{Record: chunk[i], Vector: vectors[i]}
		}
		if err := s.store.Add(ctx, entries); err != nil {
			return result, fmt.Errorf("failed to merge batch %d into index: %w", batch, err)
		}

		result.Indexed += len(chunk)
		s.logger.Info("批次已合并进索引", "batch", batch, "indexed", result.Indexed, "total", len(records))
	}

	return result, nil
}

// Query 对查询文本做语义检索，返回相似度降序的 top-k 记录。
// k=0 返回空切片而非错误。
func (s *Service) Query(ctx context.Context, text string, k int) ([]Scored, error) {
	if k < 0 {
		return nil, fmt.Errorf("k must be non-negative, got %d", k)
	}
	if k == 0 {
		return []Scored{}, nil
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := s.store.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("index search failed: %w", err)
	}
	return results, nil
}

// Count 返回索引中的记录总数
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
