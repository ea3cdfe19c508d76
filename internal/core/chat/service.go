package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bytebites/caigentan/internal/core/conversation"
	"github.com/bytebites/caigentan/internal/core/preference"
)

// DefaultRequestTimeout 是单次大模型调用的超时时间
const DefaultRequestTimeout = 120 * time.Second

// CompletionClient 是大模型补全接口，单次调用不含重试
type CompletionClient interface {
	Complete(ctx context.Context, payload CompletionPayload) (string, error)
}

// ChatParams 是一次对话请求的参数
type ChatParams struct {
	SessionID string
	Question  string
}

// ChatService 负责一次完整的问答流程：
// 加载偏好画像和对话历史，组装查询，带重试地请求大模型，
// 成功后把这一轮写入对话记忆。失败的轮次不写入记忆。
type ChatService struct {
	assembler   *Assembler
	llm         CompletionClient
	prefs       preference.Store
	log         conversation.Log
	policy      RetryPolicy
	timeout     time.Duration
	temperature float64
	logger      *slog.Logger
}

type chatServiceOptions struct {
	policy      RetryPolicy
	timeout     time.Duration
	temperature float64
	logger      *slog.Logger
}

// ChatServiceOption 是 ChatService 的选项设置
type ChatServiceOption func(*chatServiceOptions)

// WithRetryPolicy 覆盖默认的重试策略
func WithRetryPolicy(policy RetryPolicy) ChatServiceOption {
	return func(o *chatServiceOptions) {
		o.policy = policy
	}
}

// WithRequestTimeout 覆盖单次大模型调用的超时时间
func WithRequestTimeout(timeout time.Duration) ChatServiceOption {
	return func(o *chatServiceOptions) {
		o.timeout = timeout
	}
}

// WithTemperature 设置大模型采样温度
func WithTemperature(temperature float64) ChatServiceOption {
	return func(o *chatServiceOptions) {
		o.temperature = temperature
	}
}

// WithChatLogger 设置 ChatService 使用的日志器
func WithChatLogger(logger *slog.Logger) ChatServiceOption {
	return func(o *chatServiceOptions) {
		o.logger = logger
	}
}

// NewChatService 创建一个新的 ChatService
func NewChatService(
	assembler *Assembler,
	llm CompletionClient,
	prefs preference.Store,
	log conversation.Log,
	opts ...ChatServiceOption,
) *ChatService {
	options := chatServiceOptions{
		policy:      DefaultRetryPolicy(),
		timeout:     DefaultRequestTimeout,
		temperature: 0.7,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	return &ChatService{
		assembler:   assembler,
		llm:         llm,
		prefs:       prefs,
		log:         log,
		policy:      options.policy,
		timeout:     options.timeout,
		temperature: options.temperature,
		logger:      options.logger,
	}
}

// Chat 处理一次用户提问并返回回答与引用来源
func (s *ChatService) Chat(ctx context.Context, params ChatParams) (*ChatResult, error) {
	if params.SessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}
	if params.Question == "" {
		return nil, fmt.Errorf("question is required")
	}

	profile, err := s.prefs.Load(ctx, params.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preference profile: %w", err)
	}

	history, err := s.log.History(ctx, params.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	query, err := s.assembler.Assemble(ctx, params.Question, profile, history)
	if err != nil {
		return nil, err
	}

	payload := NewCompletionPayload(query)
	payload.Temperature = s.temperature

	answer, err := s.requestExplanation(ctx, payload)
	if err != nil {
		return nil, err
	}

	turn := conversation.Turn{
		Timestamp: time.Now(),
		User:      params.Question,
		Assistant: answer,
	}
	if err := s.log.Append(ctx, params.SessionID, turn); err != nil {
		return nil, fmt.Errorf("failed to append conversation turn: %w", err)
	}

	sources := make([]SourceReference, 0, len(query.RetrievedContext))
	for _, doc := range query.RetrievedContext {
		sources = append(sources, SourceReference{
			Name:  doc.Name,
			Score: doc.Score,
		})
	}

	return &ChatResult{
		Answer:  answer,
		Sources: sources,
	}, nil
}

// requestExplanation 带重试地请求大模型。
// 每次尝试使用独立的超时上下文；只有可重试错误触发退避重试，
// 尝试耗尽后返回 ExplanationRequestError。
func (s *ChatService) requestExplanation(ctx context.Context, payload CompletionPayload) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		answer, err := s.llm.Complete(attemptCtx, payload)
		cancel()

		if err == nil {
			return answer, nil
		}
		lastErr = err

		if !s.policy.Retryable(err) {
			return "", &ExplanationRequestError{Attempts: attempt, Err: err}
		}
		if attempt == s.policy.MaxAttempts {
			break
		}

		backoff := s.policy.Backoff(attempt)
		s.logger.Warn("大模型调用失败，准备重试",
			"attempt", attempt,
			"maxAttempts", s.policy.MaxAttempts,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return "", &ExplanationRequestError{Attempts: attempt, Err: ctx.Err()}
		case <-time.After(backoff):
		}
	}

	return "", &ExplanationRequestError{Attempts: s.policy.MaxAttempts, Err: lastErr}
}
