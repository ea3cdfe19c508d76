// Package logger 提供 slog 日志器的统一构建入口。
package logger

import (
	"log/slog"
	"os"
)

// Config 是日志器配置
type Config struct {
	Level  slog.Level
	Format string // "json" 或 "text"
}

// DefaultConfig 返回默认的日志器配置。
// 交互式命令行默认输出 text 格式，便于人读。
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelInfo,
		Format: "text",
	}
}

// New 创建日志器并将其设置为默认日志器。
// 日志写入标准错误，避免污染命令的标准输出。
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.Level,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
