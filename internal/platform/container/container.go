// Package container 负责按配置装配各层服务。
// 所有依赖都在这里显式注入，没有包级单例。
package container

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bytebites/caigentan/internal/core/chat"
	"github.com/bytebites/caigentan/internal/core/conversation"
	"github.com/bytebites/caigentan/internal/core/index"
	"github.com/bytebites/caigentan/internal/core/preference"
	"github.com/bytebites/caigentan/internal/infra/file"
	"github.com/bytebites/caigentan/internal/infra/openai"
	"github.com/bytebites/caigentan/internal/infra/postgres"
	"github.com/bytebites/caigentan/internal/infra/tokenizer"
	"github.com/bytebites/caigentan/internal/platform/config"
)

// ServiceContainer 保存装配完成的服务及其依赖
type ServiceContainer struct {
	Config          *config.Config
	IndexService    *index.Service
	ChatService     *chat.ChatService
	PreferenceStore preference.Store
	ConversationLog conversation.Log

	memoryStore *index.MemoryStore // 文件后端时非 nil，用于持久化
	pool        *pgxpool.Pool      // pgvector 后端时非 nil
	logger      *slog.Logger
}

type containerOptions struct {
	logger     *slog.Logger
	store      index.Store
	embedder   index.Embedder
	completion chat.CompletionClient
	freshIndex bool
}

// ContainerOption 是 ServiceContainer 构建时的选项
type ContainerOption func(*containerOptions)

// WithContainerLogger 替换日志器
func WithContainerLogger(logger *slog.Logger) ContainerOption {
	return func(opts *containerOptions) {
		opts.logger = logger
	}
}

// WithContainerStore 注入自定义的索引存储
func WithContainerStore(store index.Store) ContainerOption {
	return func(opts *containerOptions) {
		opts.store = store
	}
}

// WithContainerEmbedder 注入自定义的 Embedder
func WithContainerEmbedder(embedder index.Embedder) ContainerOption {
	return func(opts *containerOptions) {
		opts.embedder = embedder
	}
}

// WithContainerCompletionClient 注入自定义的补全客户端
func WithContainerCompletionClient(client chat.CompletionClient) ContainerOption {
	return func(opts *containerOptions) {
		opts.completion = client
	}
}

// WithFreshIndex 构建空索引而不加载已有索引，供建库命令使用
func WithFreshIndex() ContainerOption {
	return func(opts *containerOptions) {
		opts.freshIndex = true
	}
}

// New 按配置装配全部服务
func New(ctx context.Context, cfg *config.Config, opts ...ContainerOption) (*ServiceContainer, error) {
	options := containerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	c := &ServiceContainer{
		Config: cfg,
		logger: options.logger,
	}

	// Embedder (OpenAI 兼容)
	embedder := options.embedder
	if embedder == nil {
		embedder = openai.NewEmbedder(
			cfg.LLM.APIKey,
			openai.WithEmbeddingModel(cfg.Embedding.Model),
			openai.WithEmbeddingDimension(cfg.Embedding.Dimension),
			openai.WithEmbeddingBaseURL(cfg.LLM.BaseURL),
		)
	}

	// 索引存储（文件或 pgvector）
	store := options.store
	if store == nil {
		var err error
		store, err = c.buildStore(ctx, cfg, options.freshIndex)
		if err != nil {
			return nil, err
		}
	}

	c.IndexService = index.NewService(store, embedder,
		index.WithBatchSize(cfg.Embedding.BatchSize),
		index.WithIndexLogger(options.logger),
	)

	// 偏好画像与对话记录（JSON 文件）
	prefStore, err := file.NewPreferenceStore(filepath.Join(cfg.DataDir, "preferences"))
	if err != nil {
		return nil, fmt.Errorf("初始化偏好存储失败: %w", err)
	}
	c.PreferenceStore = prefStore

	convLog, err := file.NewConversationLog(filepath.Join(cfg.DataDir, "conversations"))
	if err != nil {
		return nil, fmt.Errorf("初始化对话记录失败: %w", err)
	}
	c.ConversationLog = convLog

	// Token 计数器
	counter, err := tokenizer.NewCounter()
	if err != nil {
		return nil, fmt.Errorf("初始化 token 计数器失败: %w", err)
	}

	assembler := chat.NewAssembler(c.IndexService,
		chat.WithTopK(cfg.RetrievalTopK),
		chat.WithHistoryWindow(cfg.History.Window),
		chat.WithHistoryTokenBudget(cfg.History.TokenBudget),
		chat.WithTokenCounter(counter),
		chat.WithAssemblerLogger(options.logger),
	)

	// 补全客户端
	completion := options.completion
	if completion == nil {
		client, err := openai.NewClient(
			cfg.LLM.APIKey,
			openai.WithModel(cfg.LLM.Model),
			openai.WithBaseURL(cfg.LLM.BaseURL),
		)
		if err != nil {
			return nil, fmt.Errorf("初始化补全客户端失败: %w", err)
		}
		completion = client
	}

	policy := chat.DefaultRetryPolicy()
	if cfg.LLM.MaxRetries > 0 {
		policy.MaxAttempts = cfg.LLM.MaxRetries
	}

	c.ChatService = chat.NewChatService(assembler, completion, c.PreferenceStore, c.ConversationLog,
		chat.WithRetryPolicy(policy),
		chat.WithRequestTimeout(cfg.LLM.Timeout),
		chat.WithTemperature(cfg.LLM.Temperature),
		chat.WithChatLogger(options.logger),
	)

	return c, nil
}

// buildStore 按配置构建索引存储
func (c *ServiceContainer) buildStore(ctx context.Context, cfg *config.Config, fresh bool) (index.Store, error) {
	switch cfg.Index.Backend {
	case "pgvector":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("连接数据库失败: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("数据库连接检查失败: %w", err)
		}
		c.pool = pool

		store := postgres.NewStore(pool, cfg.Embedding.Dimension)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			c.pool = nil
			return nil, err
		}
		return store, nil

	default: // "file"
		if fresh {
			c.memoryStore = index.NewMemoryStore()
			return c.memoryStore, nil
		}

		store, err := index.LoadMemoryStore(cfg.Index.Dir, cfg.Index.Name)
		if err != nil {
			return nil, err
		}
		c.memoryStore = store
		return store, nil
	}
}

// PersistIndex 把文件后端的索引落盘；pgvector 后端无需落盘
func (c *ServiceContainer) PersistIndex() error {
	if c.memoryStore == nil {
		return nil
	}
	return c.memoryStore.Persist(c.Config.Index.Dir, c.Config.Index.Name)
}

// Close 释放容器持有的外部资源
func (c *ServiceContainer) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}
