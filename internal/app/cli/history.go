package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/bytebites/caigentan/internal/infra/file"
	"github.com/bytebites/caigentan/internal/platform/config"
)

// newConversationLog 只构建对话记录存储，历史管理命令不需要完整的服务容器
func newConversationLog(envFile string) (*file.ConversationLog, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	return file.NewConversationLog(filepath.Join(cfg.DataDir, "conversations"))
}

// HistoryShowAction 展示会话的对话记录
func HistoryShowAction(ctx context.Context, cmd *cli.Command) error {
	sessionID := cmd.String("session")

	log, err := newConversationLog(cmd.String("env"))
	if err != nil {
		return err
	}

	history, err := log.History(ctx, sessionID)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Println("(暂无对话历史)")
		return nil
	}

	for _, turn := range history {
		fmt.Printf("[%s]\n", turn.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Printf("用户: %s\n", turn.User)
		fmt.Printf("助手: %s\n\n", turn.Assistant)
	}
	return nil
}

// HistoryClearAction 清空会话的对话记录
func HistoryClearAction(ctx context.Context, cmd *cli.Command) error {
	sessionID := cmd.String("session")

	log, err := newConversationLog(cmd.String("env"))
	if err != nil {
		return err
	}

	if err := log.Clear(ctx, sessionID); err != nil {
		return err
	}

	fmt.Printf("会话 %s 的对话记录已清空\n", sessionID)
	return nil
}
