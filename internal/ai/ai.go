package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
)

var (
	ErrEmptyResponse = errors.New("ai provider returned an empty response")
	ErrMalformedJSON = errors.New("ai provider returned malformed JSON")
)

// Generator is the narrow surface every provider implements: one prompt in,
// one text reply out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Config struct {
	GeminiModel     string
	BlackboxBaseURL string
	BlackboxModel   string
	// GeminiOptions are appended to the API key option, e.g. a custom endpoint.
	GeminiOptions []option.ClientOption
}

const (
	DefaultGeminiModel     = "gemini-2.0-flash"
	DefaultBlackboxBaseURL = "https://api.blackbox.ai"
	DefaultBlackboxModel   = "blackboxai"
)

// Factory builds providers for a per-user API key.
type Factory struct {
	config Config
}

func NewFactory(cfg Config) *Factory {
	if strings.TrimSpace(cfg.GeminiModel) == "" {
		cfg.GeminiModel = DefaultGeminiModel
	}
	if strings.TrimSpace(cfg.BlackboxBaseURL) == "" {
		cfg.BlackboxBaseURL = DefaultBlackboxBaseURL
	}
	if strings.TrimSpace(cfg.BlackboxModel) == "" {
		cfg.BlackboxModel = DefaultBlackboxModel
	}
	return &Factory{config: cfg}
}

func (factory *Factory) Gemini(apiKey string) Generator {
	return NewGemini(apiKey, factory.config.GeminiModel, factory.config.GeminiOptions...)
}

func (factory *Factory) Blackbox(apiKey string) Generator {
	return NewBlackbox(apiKey, factory.config.BlackboxBaseURL, factory.config.BlackboxModel)
}

// DecodeJSON strips markdown fences from a model reply and unmarshals it.
func DecodeJSON(raw string, target any) error {
	cleaned := cleanMarkdownJSON(raw)
	if cleaned == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return nil
}

// CleanHTML removes a ```html fence the model may wrap around a document.
func CleanHTML(raw string) string {
	content := strings.TrimSpace(raw)
	if strings.HasPrefix(content, "```html") {
		content = strings.TrimPrefix(content, "```html")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}

func cleanMarkdownJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
