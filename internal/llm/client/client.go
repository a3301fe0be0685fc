// Package client wraps the eino chat-model components behind a small
// completion interface. One Client serves text completions and vision
// completions for whichever provider it was built with.
package client

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"uiloop/internal/events"
)

const defaultMaxTokens = 8192

// Client is a provider-agnostic chat completion client.
type Client struct {
	chatModel model.BaseChatModel
	provider  string
	modelName string
}

// New builds a Client for the given provider. The API key is used as-is;
// a missing or invalid key surfaces as an error on the first completion.
func New(ctx context.Context, provider, apiKey, modelName string) (*Client, error) {
	switch provider {
	case "openai":
		return NewOpenAIClient(ctx, apiKey, modelName)
	case "anthropic":
		return NewClaudeClient(ctx, apiKey, modelName)
	case "gemini":
		return NewGeminiClient(ctx, apiKey, modelName)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func NewOpenAIClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey: apiKey,
		Model:  modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create openai chat model: %w", err)
	}
	return &Client{chatModel: cm, provider: "openai", modelName: modelName}, nil
}

func NewClaudeClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	cm, err := claude.NewChatModel(ctx, &claude.Config{
		APIKey:    apiKey,
		Model:     modelName,
		MaxTokens: defaultMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create claude chat model: %w", err)
	}
	return &Client{chatModel: cm, provider: "anthropic", modelName: modelName}, nil
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: genaiClient,
		Model:  modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini chat model: %w", err)
	}
	return &Client{chatModel: cm, provider: "gemini", modelName: modelName}, nil
}

// Provider reports which backend this client talks to.
func (c *Client) Provider() string { return c.provider }

// Model reports the configured model name.
func (c *Client) Model() string { return c.modelName }

// Complete sends a system+user prompt pair and returns the response text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}
	return c.generate(ctx, messages)
}

// CompleteVision sends a system prompt plus a user message that carries both
// text and a PNG screenshot encoded as a data URI.
func (c *Client) CompleteVision(ctx context.Context, system, user string, png []byte) (string, error) {
	imageURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	messages := []*schema.Message{
		schema.SystemMessage(system),
		{
			Role: schema.User,
			MultiContent: []schema.ChatMessagePart{
				{Type: schema.ChatMessagePartTypeText, Text: user},
				{
					Type: schema.ChatMessagePartTypeImageURL,
					ImageURL: &schema.ChatMessageImageURL{
						URL: imageURL,
					},
				},
			},
		},
	}
	return c.generate(ctx, messages)
}

func (c *Client) generate(ctx context.Context, messages []*schema.Message) (string, error) {
	events.Emit(ctx, events.LLMEvent, events.NewInfo(
		fmt.Sprintf("calling %s/%s", c.provider, c.modelName)))
	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		events.Emit(ctx, events.LLMEvent, events.NewError(
			fmt.Sprintf("%s/%s call failed: %v", c.provider, c.modelName, err)))
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	return resp.Content, nil
}
