package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yourorg/rest2mcp/internal/config"
)

// bedrockBaseURL is the OpenAI-compatible gateway of the hosted
// inference service, parameterized by region.
const bedrockBaseURL = "https://bedrock-runtime.%s.amazonaws.com/openai/v1"

var sleepFn = time.Sleep

// Client sends prompts to an OpenAI-compatible chat completions API and
// returns the first choice text.
type Client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *slog.Logger
}

// New builds a client from config. Provider "bedrock" derives the base
// URL from the region; anything else uses llm.base_url as-is.
func New(cfg config.LLMConfig, logger *slog.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	switch strings.ToLower(cfg.Provider) {
	case "bedrock":
		apiCfg.BaseURL = fmt.Sprintf(bedrockBaseURL, cfg.Region)
	default:
		if cfg.BaseURL != "" {
			apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
	}
	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		logger:      logger,
	}
}

// Complete sends one user prompt and returns the first response choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.logger != nil {
		c.logger.Debug("llm request", "model", c.model, "prompt", prompt)
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	var lastErr error
	maxRetries := 3
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries && retryable(err) {
				sleepFn(backoff(attempt))
				continue
			}
			return "", fmt.Errorf("llm request: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("llm response has no choices")
		}
		content := resp.Choices[0].Message.Content
		if c.logger != nil {
			c.logger.Debug("llm response", "content", content)
		}
		return content, nil
	}
	return "", fmt.Errorf("llm request: %w", lastErr)
}

func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Transport-level failures have no status code.
	return true
}

func backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return time.Second << attempt
}
