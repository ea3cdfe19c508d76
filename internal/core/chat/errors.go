package chat

import (
	"errors"
	"fmt"
)

// RetrievalUnavailableError 表示组装请求时相似度索引不可用。
// 调用方必须能把"检索失败"与"没有相关结果"区分开，
// 因此组装器绝不带着空上下文静默继续。
type RetrievalUnavailableError struct {
	Err error
}

func (e *RetrievalUnavailableError) Error() string {
	return fmt.Sprintf("retrieval unavailable: %v", e.Err)
}

func (e *RetrievalUnavailableError) Unwrap() error {
	return e.Err
}

// ExplanationRequestError 表示补全能力在重试耗尽后仍然失败。
// 该错误以类型化结果返回给调用方，调用方据此展示降级回复；
// 对话记录不会因失败的请求写入伪造的条目。
type ExplanationRequestError struct {
	Attempts int
	Err      error
}

func (e *ExplanationRequestError) Error() string {
	return fmt.Sprintf("explanation request failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExplanationRequestError) Unwrap() error {
	return e.Err
}

// DegradedMessage 把查询链路上的错误转换为用户可见的降级回复。
// 返回值永远是非空的中文提示，绝不是空串或堆栈。
func DegradedMessage(err error) string {
	var retrievalErr *RetrievalUnavailableError
	if errors.As(err, &retrievalErr) {
		return "抱歉，餐厅数据暂时无法检索，请稍后再试。"
	}

	var requestErr *ExplanationRequestError
	if errors.As(err, &requestErr) {
		return "处理超时，请稍后再试或尝试简化您的问题。"
	}

	return "抱歉，处理您的请求时发生错误，请稍后再试。"
}
