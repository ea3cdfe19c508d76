// Package tokenizer 提供基于 tiktoken 的 token 计数器，
// 用于在提示词组装时控制对话历史的 token 预算。
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/bytebites/caigentan/internal/core/chat"
)

// DefaultEncoding 是默认使用的编码表
const DefaultEncoding = "cl100k_base"

// Counter 用 tiktoken 编码表统计文本的 token 数
type Counter struct {
	encoding *tiktoken.Tiktoken
}

// NewCounter 创建一个新的 Counter
func NewCounter() (*Counter, error) {
	encoding, err := tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding: %w", err)
	}
	return &Counter{encoding: encoding}, nil
}

// Count 返回文本的 token 数
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.encoding.Encode(text, nil, nil))
}

// 接口实现检查
var _ chat.TokenCounter = (*Counter)(nil)
