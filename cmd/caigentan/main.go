package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	appcli "github.com/bytebites/caigentan/internal/app/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "caigentan",
		Usage: "菜根探：基于个人偏好的智能餐厅推荐助手",
		Commands: []*cli.Command{
			{
				Name:  "index",
				Usage: "相似度索引管理命令",
				Commands: []*cli.Command{
					{
						Name:  "build",
						Usage: "从餐厅数据集构建相似度索引",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "环境变量文件路径",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "csv",
								Usage:    "餐厅数据集文件路径",
								Required: true,
							},
						},
						Action: appcli.IndexBuildAction,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "单轮推荐问答",
				ArgsUsage: "<问题>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "环境变量文件路径",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:  "session",
						Usage: "会话标识（同一会话共享偏好画像与对话历史）",
						Value: "default",
					},
					&cli.BoolFlag{
						Name:  "show-sources",
						Usage: "输出推荐依据的候选餐厅",
					},
				},
				Action: appcli.AskAction,
			},
			{
				Name:  "chat",
				Usage: "启动交互式推荐对话",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "环境变量文件路径",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:  "session",
						Usage: "会话标识（省略时自动生成新会话）",
					},
				},
				Action: appcli.ChatAction,
			},
			{
				Name:  "profile",
				Usage: "用户偏好画像管理命令",
				Commands: []*cli.Command{
					{
						Name:  "init",
						Usage: "交互式设置偏好画像",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "环境变量文件路径",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:  "session",
								Usage: "会话标识",
								Value: "default",
							},
						},
						Action: appcli.ProfileInitAction,
					},
					{
						Name:  "show",
						Usage: "展示偏好画像",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "环境变量文件路径",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:  "session",
								Usage: "会话标识",
								Value: "default",
							},
						},
						Action: appcli.ProfileShowAction,
					},
				},
			},
			{
				Name:  "history",
				Usage: "对话历史管理命令",
				Commands: []*cli.Command{
					{
						Name:  "show",
						Usage: "展示会话的对话记录",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "环境变量文件路径",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:  "session",
								Usage: "会话标识",
								Value: "default",
							},
						},
						Action: appcli.HistoryShowAction,
					},
					{
						Name:  "clear",
						Usage: "清空会话的对话记录",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "环境变量文件路径",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:  "session",
								Usage: "会话标识",
								Value: "default",
							},
						},
						Action: appcli.HistoryClearAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
