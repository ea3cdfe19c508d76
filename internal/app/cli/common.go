package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bytebites/caigentan/internal/platform/config"
	"github.com/bytebites/caigentan/internal/platform/container"
	"github.com/bytebites/caigentan/internal/platform/logger"
)

// AppContext 保存命令执行所需的公共上下文
type AppContext struct {
	Container *container.ServiceContainer
	Logger    *slog.Logger
}

// NewAppContext 加载配置并装配服务容器
func NewAppContext(ctx context.Context, envFile string, opts ...container.ContainerOption) (*AppContext, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	appLogger := logger.New(logger.DefaultConfig())

	opts = append([]container.ContainerOption{container.WithContainerLogger(appLogger)}, opts...)
	cont, err := container.New(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("初始化服务容器失败: %w", err)
	}

	return &AppContext{
		Container: cont,
		Logger:    appLogger,
	}, nil
}

// Close 释放 AppContext 持有的资源
func (ac *AppContext) Close() {
	if ac.Container != nil {
		ac.Container.Close()
	}
}
