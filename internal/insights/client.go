package insights

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a personal finance assistant. You receive a JSON summary of a user's " +
	"incomes and expenses. Give short, concrete observations and suggestions based only on that data."

// ErrEmptyResponse is returned when the model produced no choices.
var ErrEmptyResponse = errors.New("insights: empty model response")

// IGenerator turns a data summary and an optional question into advice text.
//
//go:generate mockery --name IGenerator --output mock_IGenerator.go
type IGenerator interface {
	Generate(ctx context.Context, summary string, question string) (string, error)
}

// Client talks to any OpenAI compatible chat completions endpoint.
type Client struct {
	api   *openai.Client
	model string
}

var _ IGenerator = (*Client)(nil)

func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// Generate returns the model's reply untouched.
func (c *Client) Generate(ctx context.Context, summary string, question string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: summary},
	}
	if question != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: question})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("insights: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
