package chat

import (
	"context"
	"errors"
	"time"
)

const (
	// DefaultMaxAttempts 是补全请求的默认最大尝试次数（含首次调用）
	DefaultMaxAttempts = 3

	// DefaultInitialBackoff 是指数退避的基底等待时间
	DefaultInitialBackoff = 2 * time.Second

	// DefaultMaxBackoff 是指数退避的等待时间上限
	DefaultMaxBackoff = 32 * time.Second
)

// transient 由 infra 层的错误类型实现，标记可重试的暂时性失败
type transient interface {
	Transient() bool
}

// IsTransient 判断错误是否是可重试的暂时性失败。
// 超时和限流类错误可重试；认证失败、请求格式非法等错误不重试。
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t transient
	if errors.As(err, &t) {
		return t.Transient()
	}
	return false
}

// RetryPolicy 是补全请求的显式重试策略：
// 最大尝试次数、退避节奏和可重试错误判定集中在一处，
// 而不是散落在各调用点的异常捕获里。
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Retryable      func(error) bool
}

// DefaultRetryPolicy 返回默认重试策略
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    DefaultMaxAttempts,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
		Retryable:      IsTransient,
	}
}

// Backoff 返回第 attempt 次重试前的等待时间（attempt 从 1 开始）
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	backoff := p.InitialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if backoff >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if backoff > p.MaxBackoff {
		return p.MaxBackoff
	}
	return backoff
}
