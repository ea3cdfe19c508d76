package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytebites/caigentan/internal/core/conversation"
)

// ConversationLog 把对话记录按会话保存为 JSON 数组文件。
// 每次追加同步落盘，进程崩溃最多丢失正在写入的那一轮。
type ConversationLog struct {
	dir string
	mu  sync.Mutex
}

// NewConversationLog 创建一个新的 ConversationLog，目录不存在时自动创建
func NewConversationLog(dir string) (*ConversationLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create conversation directory: %w", err)
	}
	return &ConversationLog{dir: dir}, nil
}

// Append 追加一轮对话并落盘
func (l *ConversationLog) Append(_ context.Context, sessionID string, turn conversation.Turn) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	turns, err := l.read(sessionID)
	if err != nil {
		return err
	}
	turns = append(turns, turn)

	data, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode conversation log: %w", err)
	}
	return atomicWrite(l.path(sessionID), data)
}

// History 按时间顺序返回会话的全部对话记录。文件不存在时返回空历史。
func (l *ConversationLog) History(_ context.Context, sessionID string) ([]conversation.Turn, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.read(sessionID)
}

// Clear 删除会话的对话记录文件
func (l *ConversationLog) Clear(_ context.Context, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.Remove(l.path(sessionID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear conversation log: %w", err)
	}
	return nil
}

func (l *ConversationLog) read(sessionID string) ([]conversation.Turn, error) {
	data, err := os.ReadFile(l.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read conversation log: %w", err)
	}

	var turns []conversation.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("failed to parse conversation log: %w", err)
	}
	return turns, nil
}

func (l *ConversationLog) path(sessionID string) string {
	return filepath.Join(l.dir, sessionID+".json")
}

// 接口实现检查
var _ conversation.Log = (*ConversationLog)(nil)
