package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const blackboxMaxTokens = 2048

// Blackbox talks to Blackbox AI through its OpenAI-compatible chat endpoint.
type Blackbox struct {
	client *openai.Client
	model  string
}

func NewBlackbox(apiKey string, baseURL string, model string) *Blackbox {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(baseURL, "/")
	return &Blackbox{client: openai.NewClientWithConfig(config), model: model}
}

func (blackbox *Blackbox) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := blackbox.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: blackbox.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: blackboxMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("blackbox: %w", err)
	}
	if len(response.Choices) == 0 || strings.TrimSpace(response.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return response.Choices[0].Message.Content, nil
}
