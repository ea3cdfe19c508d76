package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/bytebites/caigentan/internal/app/tui"
	"github.com/bytebites/caigentan/internal/core/index"
)

// ChatAction 启动交互式推荐对话界面
func ChatAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	sessionID := cmd.String("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		var loadErr *index.IndexLoadError
		if errors.As(err, &loadErr) {
			return fmt.Errorf("索引不存在或已损坏，请先运行 index build 命令: %w", err)
		}
		return err
	}
	defer appCtx.Close()

	model := tui.New(appCtx.Container.ChatService, sessionID)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("对话界面异常退出: %w", err)
	}
	return nil
}
