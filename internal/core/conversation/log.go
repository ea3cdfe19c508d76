package conversation

import (
	"context"
	"sync"
	"time"
)

// Turn 是一轮对话记录，追加后不可变
type Turn struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
}

// Log 是按会话组织的只追加对话记录。
// 除整体 Clear 外不允许任何修改；History 按时间顺序返回。
type Log interface {
	Append(ctx context.Context, sessionID string, turn Turn) error
	History(ctx context.Context, sessionID string) ([]Turn, error)
	Clear(ctx context.Context, sessionID string) error
}

// MemoryLog 是进程内的对话记录实现，用于测试和无持久化的会话
type MemoryLog struct {
	mu    sync.RWMutex
	turns map[string][]Turn
}

// NewMemoryLog 创建一个空的 MemoryLog
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{turns: make(map[string][]Turn)}
}

// Append 追加一轮对话
func (l *MemoryLog) Append(_ context.Context, sessionID string, turn Turn) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns[sessionID] = append(l.turns[sessionID], turn)
	return nil
}

// History 按时间顺序返回会话的全部对话记录
func (l *MemoryLog) History(_ context.Context, sessionID string) ([]Turn, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	history := make([]Turn, len(l.turns[sessionID]))
	copy(history, l.turns[sessionID])
	return history, nil
}

// Clear 整体清空会话的对话记录
func (l *MemoryLog) Clear(_ context.Context, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.turns, sessionID)
	return nil
}

// 接口实现确认
var _ Log = (*MemoryLog)(nil)
