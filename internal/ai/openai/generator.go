// Package openai implements ai.Generator with the OpenAI chat completion API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

const (
	// ProviderName tags analyses produced through this generator.
	ProviderName = "openai"

	defaultModel = openai.ChatModelGPT4oMini
)

// Config holds the connection settings.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	Temperature float64
}

// Generator sends chat completion requests.
type Generator struct {
	client      *openai.Client
	model       openai.ChatModel
	temperature float64
	logger      *zap.Logger
}

// NewGenerator creates a Generator. Extra request options are appended after
// the ones derived from cfg.
func NewGenerator(cfg Config, logger *zap.Logger, extra ...option.RequestOption) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if cfg.MaxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	opts = append(opts, extra...)

	model := openai.ChatModel(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = defaultModel
	}

	client := openai.NewClient(opts...)

	return &Generator{
		client:      &client,
		model:       model,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

// GenerateContent sends the system instruction and message and returns the first choice.
func (g *Generator) GenerateContent(ctx context.Context, systemInstruction, message string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("openai generator is not initialized")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	messages := []openai.ChatCompletionMessageParamUnion{}
	if system := strings.TrimSpace(systemInstruction); system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(message))

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       g.model,
		Messages:    messages,
		Temperature: openai.Float(g.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai api returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("openai api returned empty response")
	}

	g.logger.Debug("openai response received",
		zap.Int("length", len(text)),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)

	return text, nil
}

// Model returns the configured model identifier.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return string(g.model)
}
