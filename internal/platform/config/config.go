// Package config 从环境变量和 .env 文件加载应用配置。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 保存应用的全部配置
type Config struct {
	// LLM 是补全（推荐生成）的配置
	LLM LLMConfig

	// Embedding 是向量化的配置
	Embedding EmbeddingConfig

	// Index 是相似度索引的配置
	Index IndexConfig

	// Database 是 pgvector 后端的数据库连接配置
	Database DatabaseConfig

	// DataDir 是偏好画像和对话记录的存储根目录
	DataDir string

	// History 是对话历史裁剪配置
	History HistoryConfig

	// RetrievalTopK 是每次查询取回的候选条数
	RetrievalTopK int
}

// LLMConfig 是补全模型的配置
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
}

// EmbeddingConfig 是 Embedding 模型的配置
type EmbeddingConfig struct {
	Model     string
	Dimension int
	BatchSize int
}

// IndexConfig 是相似度索引的配置。
// Backend 为 "file" 时索引保存在本地目录，为 "pgvector" 时保存在 PostgreSQL。
type IndexConfig struct {
	Backend string
	Dir     string
	Name    string
}

// DatabaseConfig 是数据库连接配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// HistoryConfig 是对话历史的裁剪配置
type HistoryConfig struct {
	Window      int
	TokenBudget int
}

// DSN 返回 PostgreSQL 连接串
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Load 从环境变量和可选的 .env 文件加载配置
func Load(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// 文件不存在不是错误，允许只用环境变量运行
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		LLM: LLMConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.deepseek.com"),
			Model:       getEnv("LLM_MODEL", "deepseek-chat"),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			Timeout:     time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 120)) * time.Second,
			MaxRetries:  getEnvAsInt("LLM_MAX_RETRIES", 3),
		},
		Embedding: EmbeddingConfig{
			Model:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			Dimension: getEnvAsInt("EMBEDDING_DIMENSION", 512),
			BatchSize: getEnvAsInt("EMBEDDING_BATCH_SIZE", 100),
		},
		Index: IndexConfig{
			Backend: getEnv("INDEX_BACKEND", "file"),
			Dir:     getEnv("INDEX_DIR", "data/index"),
			Name:    getEnv("INDEX_NAME", "index"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "caigentan"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "caigentan"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		DataDir: getEnv("DATA_DIR", "data"),
		History: HistoryConfig{
			Window:      getEnvAsInt("HISTORY_WINDOW", 20),
			TokenBudget: getEnvAsInt("HISTORY_TOKEN_BUDGET", 4000),
		},
		RetrievalTopK: getEnvAsInt("RETRIEVAL_TOP_K", 20),
	}

	if cfg.Index.Backend != "file" && cfg.Index.Backend != "pgvector" {
		return nil, fmt.Errorf("unknown index backend: %s", cfg.Index.Backend)
	}

	return cfg, nil
}

// getEnv 读取环境变量，不存在时返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt 把环境变量读取为整数
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat 把环境变量读取为浮点数
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
