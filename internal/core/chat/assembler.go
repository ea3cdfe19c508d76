package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bytebites/caigentan/internal/core/conversation"
	"github.com/bytebites/caigentan/internal/core/index"
	"github.com/bytebites/caigentan/internal/core/preference"
)

const (
	// DefaultTopK 是检索上下文的默认条数
	DefaultTopK = 20

	// DefaultHistoryWindow 是进入提示词的最近对话轮数上限
	DefaultHistoryWindow = 20

	// DefaultHistoryTokenBudget 是对话历史的 token 预算
	DefaultHistoryTokenBudget = 4000
)

// Retriever 是语义检索接口
type Retriever interface {
	// Query 返回与查询文本相似度最高的 k 条记录（降序）
	Query(ctx context.Context, text string, k int) ([]index.Scored, error)
}

// TokenCounter 统计文本的 token 数，用于裁剪对话历史
type TokenCounter interface {
	Count(text string) int
}

// Assembler 把用户问题、偏好画像和对话历史组装为单个结构化查询。
// 组装是其三个输入加当前索引状态的纯函数，不修改任何输入对象。
type Assembler struct {
	retriever          Retriever
	topK               int
	historyWindow      int
	historyTokenBudget int
	tokenCounter       TokenCounter
	logger             *slog.Logger
}

type assemblerOptions struct {
	topK               int
	historyWindow      int
	historyTokenBudget int
	tokenCounter       TokenCounter
	logger             *slog.Logger
}

// AssemblerOption 是 Assembler 的选项设置
type AssemblerOption func(*assemblerOptions)

// WithTopK 覆盖检索条数
func WithTopK(k int) AssemblerOption {
	return func(o *assemblerOptions) {
		o.topK = k
	}
}

// WithHistoryWindow 覆盖对话历史的轮数上限
func WithHistoryWindow(window int) AssemblerOption {
	return func(o *assemblerOptions) {
		o.historyWindow = window
	}
}

// WithHistoryTokenBudget 覆盖对话历史的 token 预算
func WithHistoryTokenBudget(budget int) AssemblerOption {
	return func(o *assemblerOptions) {
		o.historyTokenBudget = budget
	}
}

// WithTokenCounter 设置 token 统计器；未设置时只按轮数裁剪历史
func WithTokenCounter(counter TokenCounter) AssemblerOption {
	return func(o *assemblerOptions) {
		o.tokenCounter = counter
	}
}

// WithAssemblerLogger 设置 Assembler 使用的日志器
func WithAssemblerLogger(logger *slog.Logger) AssemblerOption {
	return func(o *assemblerOptions) {
		o.logger = logger
	}
}

// NewAssembler 创建一个新的 Assembler
func NewAssembler(retriever Retriever, opts ...AssemblerOption) *Assembler {
	options := assemblerOptions{
		topK:               DefaultTopK,
		historyWindow:      DefaultHistoryWindow,
		historyTokenBudget: DefaultHistoryTokenBudget,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.topK <= 0 {
		options.topK = DefaultTopK
	}
	if options.historyWindow <= 0 {
		options.historyWindow = DefaultHistoryWindow
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	return &Assembler{
		retriever:          retriever,
		topK:               options.topK,
		historyWindow:      options.historyWindow,
		historyTokenBudget: options.historyTokenBudget,
		tokenCounter:       options.tokenCounter,
		logger:             options.logger,
	}
}

// Assemble 组装单次请求的查询载荷。
// 检索失败返回 RetrievalUnavailableError，绝不带着空上下文静默降级；
// 检索成功但结果为空是合法状态（没有相关餐厅）。
func (a *Assembler) Assemble(
	ctx context.Context,
	question string,
	profile *preference.PreferenceProfile,
	history []conversation.Turn,
) (*AssembledQuery, error) {
	if question == "" {
		return nil, fmt.Errorf("question is required")
	}

	scored, err := a.retriever.Query(ctx, question, a.topK)
	if err != nil {
		return nil, &RetrievalUnavailableError{Err: err}
	}

	docs := make([]RetrievedDoc, 0, len(scored))
	for _, s := range scored {
		docs = append(docs, RetrievedDoc{
			Name:  s.Record.Name,
			Text:  s.Record.CanonicalText,
			Score: s.Score,
		})
	}

	a.logger.Info("检索完成",
		"question", question,
		"topK", a.topK,
		"retrieved", len(docs),
	)

	return &AssembledQuery{
		Question:           question,
		RetrievedContext:   docs,
		RenderedPreference: preference.Render(profile),
		PreferenceScores:   preference.RenderScores(profile),
		History:            a.windowHistory(history),
	}, nil
}

// windowHistory 截取最近 historyWindow 轮对话，
// 再在 token 预算内从最早的一侧继续裁剪（最近的轮次优先保留）。
func (a *Assembler) windowHistory(history []conversation.Turn) []conversation.Turn {
	if len(history) > a.historyWindow {
		history = history[len(history)-a.historyWindow:]
	}

	if a.tokenCounter == nil || a.historyTokenBudget <= 0 {
		return history
	}

	total := 0
	start := len(history)
	for i := len(history) - 1; i >= 0; i-- {
		turn := history[i]
		cost := a.tokenCounter.Count(turn.User) + a.tokenCounter.Count(turn.Assistant)
		if total+cost > a.historyTokenBudget {
			break
		}
		total += cost
		start = i
	}
	return history[start:]
}
