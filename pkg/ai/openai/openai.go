// Package openai implements the ai.Client interface against any
// OpenAI-compatible API, including hosted gateways that front other
// models behind the same wire protocol.
package openai

import (
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Client manages separate OpenAI clients for embeddings and
// chat/completion tasks, since deployments often route the two to
// different providers.
//
// A Client should be created using NewClient.
type Client struct {
	chatModel      string
	embeddingModel string

	chatURL      string
	chatKey      string
	embeddingURL string
	embeddingKey string

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
}

// NewClientParams defines the configuration for creating a Client.
// ChatURL and EmbeddingURL may be left empty to use the default
// OpenAI endpoint.
type NewClientParams struct {
	ChatModel      string
	EmbeddingModel string

	ChatURL      string
	ChatKey      string
	EmbeddingURL string
	EmbeddingKey string
}

// NewClient creates a Client configured with the provided parameters.
//
// Example:
//
//	client := openai.NewClient(openai.NewClientParams{
//		ChatModel:      "deepseek-ai/DeepSeek-V3.2",
//		EmbeddingModel: "BAAI/bge-m3",
//		ChatURL:        "https://api.siliconflow.cn/v1",
//		ChatKey:        os.Getenv("AI_API_KEY"),
//		EmbeddingURL:   "https://api.siliconflow.cn/v1",
//		EmbeddingKey:   os.Getenv("AI_API_KEY"),
//	})
func NewClient(params NewClientParams) *Client {
	return &Client{
		chatModel:      params.ChatModel,
		embeddingModel: params.EmbeddingModel,

		chatURL:      params.ChatURL,
		chatKey:      params.ChatKey,
		embeddingURL: params.EmbeddingURL,
		embeddingKey: params.EmbeddingKey,

		ChatClient:      newOpenaiClient(params.ChatURL, params.ChatKey),
		EmbeddingClient: newOpenaiClient(params.EmbeddingURL, params.EmbeddingKey),
	}
}

func newOpenaiClient(baseURL string, apiKey string) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
