package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
)

// APICallError 是一次失败的 API 调用，携带 HTTP 状态码。
// 限流和服务端错误标记为暂时性失败，交由上层重试策略处理。
type APICallError struct {
	StatusCode int
	Err        error
}

func (e *APICallError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API call failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("API call failed: %v", e.Err)
}

func (e *APICallError) Unwrap() error {
	return e.Err
}

// Transient 报告该错误是否值得重试
func (e *APICallError) Transient() bool {
	if e.StatusCode == 429 || e.StatusCode >= 500 {
		return true
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// wrapAPIError 把 SDK 错误包装为携带状态码的 APICallError
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &APICallError{StatusCode: apiErr.StatusCode, Err: err}
	}
	return &APICallError{Err: err}
}
