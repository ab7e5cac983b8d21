package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Gemini struct {
	apiKey  string
	model   string
	options []option.ClientOption
}

func NewGemini(apiKey string, model string, options ...option.ClientOption) *Gemini {
	return &Gemini{apiKey: apiKey, model: model, options: options}
}

// Generate opens a client per call; keys are per user and calls are infrequent.
func (gemini *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	options := append([]option.ClientOption{option.WithAPIKey(gemini.apiKey)}, gemini.options...)
	client, err := genai.NewClient(ctx, options...)
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(gemini.model)
	response, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return responseText(response)
}

func responseText(response *genai.GenerateContentResponse) (string, error) {
	if response == nil {
		return "", ErrEmptyResponse
	}

	var builder strings.Builder
	for _, candidate := range response.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
		if builder.Len() > 0 {
			break
		}
	}

	if strings.TrimSpace(builder.String()) == "" {
		return "", ErrEmptyResponse
	}
	return builder.String(), nil
}
