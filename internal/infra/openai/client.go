package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/bytebites/caigentan/internal/core/chat"
)

// DefaultModel 是未指定时使用的默认补全模型
const DefaultModel = "deepseek-chat"

// ErrAPIKeyNotSet 表示没有配置 API 密钥
var ErrAPIKeyNotSet = errors.New("API key not set: please set OPENAI_API_KEY environment variable")

// Client 是 OpenAI 兼容补全 API 的薄客户端。
// 单次调用不做重试，重试节奏由上层的重试策略控制。
type Client struct {
	client openai.Client
	model  string
}

type clientOptions struct {
	model   string
	baseURL string
}

// ClientOption 是 Client 的选项设置
type ClientOption func(*clientOptions)

// WithModel 覆盖补全模型名
func WithModel(model string) ClientOption {
	return func(o *clientOptions) {
		o.model = model
	}
}

// WithBaseURL 指向 OpenAI 兼容服务的地址（如 DeepSeek）
func WithBaseURL(baseURL string) ClientOption {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// NewClient 创建一个新的 Client
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	options := clientOptions{
		model: DefaultModel,
	}
	for _, opt := range opts {
		opt(&options)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if options.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(options.baseURL))
	}

	return &Client{
		client: openai.NewClient(clientOpts...),
		model:  options.model,
	}, nil
}

// ModelName 返回模型名
func (c *Client) ModelName() string {
	return c.model
}

// Complete 发起一次补全请求并返回回答文本
func (c *Client) Complete(ctx context.Context, payload chat.CompletionPayload) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(payload.SystemPrompt()),
			openai.UserMessage(payload.Question),
		},
		Temperature: openai.Float(payload.Temperature),
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapAPIError(err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return completion.Choices[0].Message.Content, nil
}

// 接口实现检查
var _ chat.CompletionClient = (*Client)(nil)
