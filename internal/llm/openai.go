package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/meteolink/meteolink-core/internal/infrastructure/config"
)

// OpenAIGenerator implements notify.Generator on the OpenAI chat
// completion API.
//
// The prompt is sent as a single system-role message; model, temperature
// and token budget come from configuration.
type OpenAIGenerator struct {
	client  *openai.Client
	cfg     config.OpenAIConfig
	timeout time.Duration
}

// NewOpenAIGenerator creates a generator from configuration.
func NewOpenAIGenerator(cfg config.OpenAIConfig) *OpenAIGenerator {
	return &OpenAIGenerator{
		client:  openai.NewClient(cfg.APIKey),
		cfg:     cfg,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// Generate requests a completion for prompt and returns the first choice.
//
// Returns an empty string without error when the model produced no
// content; the caller treats that the same as a failure and falls back.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: float32(g.cfg.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
