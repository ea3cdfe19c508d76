package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bytebites/caigentan/internal/core/chat"
	"github.com/bytebites/caigentan/internal/core/index"
)

// AskAction 执行一次单轮推荐问答
func AskAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	sessionID := cmd.String("session")
	showSources := cmd.Bool("show-sources")

	question := cmd.Args().First()
	if question == "" {
		return fmt.Errorf("请输入问题")
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

	result, err := appCtx.Container.ChatService.Chat(ctx, chat.ChatParams{
		SessionID: sessionID,
		Question:  question,
	})
	if err != nil {
		// 查询链路失败时向用户展示降级回复，细节写入日志
		appCtx.Logger.Error("推荐请求失败", "session", sessionID, "error", err)
		fmt.Println(chat.DegradedMessage(err))
		return nil
	}

	fmt.Println(result.Answer)

	if showSources && len(result.Sources) > 0 {
		fmt.Println("\n--- 候选餐厅 ---")
		for i, source := range result.Sources {
			fmt.Printf("[%d] %s 相似度: %.4f\n", i+1, source.Name, source.Score)
		}
	}
	return nil
}
