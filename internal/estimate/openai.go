package estimate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIProvider calls the OpenAI chat completions API. One request carries
// the whole task batch.
type OpenAIProvider struct {
	client      openai.Client
	model       string
	temperature float64
	logger      *slog.Logger
}

func NewOpenAIProvider(apiKey, model string, temperature float64, logger *slog.Logger) *OpenAIProvider {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &OpenAIProvider{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	p.logger.Debug("invoking OpenAI",
		"model", p.model,
		"temperature", p.temperature,
		"prompt_len", len(prompt),
	)

	start := time.Now()
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Temperature: openai.Float(p.temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	elapsed := time.Since(start)

	if err != nil {
		p.logger.Error("OpenAI call failed", "error", err, "elapsed", elapsed)
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(completion.Choices) == 0 {
		p.logger.Error("OpenAI returned no choices", "elapsed", elapsed)
		return "", fmt.Errorf("OpenAI returned no choices")
	}

	content := completion.Choices[0].Message.Content
	p.logger.Debug("OpenAI response", "elapsed", elapsed, "content_len", len(content))

	return content, nil
}
