package chat

import (
	"github.com/bytebites/caigentan/internal/core/conversation"
)

// RetrievedDoc 是从相似度索引检索出的单条上下文
type RetrievedDoc struct {
	Name  string  // 餐厅名称
	Text  string  // 规范化描述文本（canonical text）
	Score float64 // 相似度得分
}

// AssembledQuery 是单次请求组装出的临时值对象：
// 检索上下文 + 渲染后的偏好 + 对话历史 + 原始问题。
// 只在请求范围内存活，从不持久化。
type AssembledQuery struct {
	Question           string
	RetrievedContext   []RetrievedDoc
	RenderedPreference string
	PreferenceScores   string
	History            []conversation.Turn
}

// CompletionPayload 是发送给文本补全能力的结构化请求载荷。
// 指令模板是带版本号的常量，与每次请求的数据严格分离。
type CompletionPayload struct {
	PromptVersion      string
	Instructions       string
	RenderedPreference string
	PreferenceScores   string
	RetrievedContext   []RetrievedDoc
	History            []conversation.Turn
	Question           string
	Temperature        float64
}

// SourceReference 是推荐结果引用的候选餐厅
type SourceReference struct {
	Name  string
	Score float64
}

// ChatResult 是一轮推荐对话的结果
type ChatResult struct {
	Answer  string
	Sources []SourceReference
}
