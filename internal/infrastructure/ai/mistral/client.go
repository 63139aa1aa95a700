// Package mistral provides the Mistral chat-completions provider client.
// Unlike the OpenAI sibling it retries rate-limited requests, because the
// Mistral free tier throttles aggressively.
package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cellarmind/v1/internal/infrastructure/ai"
	"github.com/cellarmind/v1/internal/ports/outbound"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const providerName = "mistral"

// Retry budget for HTTP 429 responses. Backoff grows linearly:
// baseBackoff, 2*baseBackoff, 3*baseBackoff.
const maxRateLimitRetries = 3

// Config holds the client settings. Zero values fall back to sane
// defaults in NewClient.
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerSecond float64
	RetryBackoff      time.Duration
}

// Client implements outbound.LLMClient against the Mistral API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	backoff time.Duration
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a Mistral client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mistral.ai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "mistral-small-latest"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		backoff: cfg.RetryBackoff,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		logger:  logger.Named(providerName),
	}
}

// Name identifies the provider in logs and errors.
func (c *Client) Name() string { return providerName }

// Configured reports whether an API key is available.
func (c *Client) Configured() bool { return c.apiKey != "" }

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt, retrying on rate-limit responses, and
// returns the assistant's raw text.
func (c *Client) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", &ai.ProviderError{Provider: providerName, Err: fmt.Errorf("no API key configured")}
	}

	var lastErr error
	for attempt := 0; attempt <= maxRateLimitRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * c.backoff
			c.logger.Warn("rate limited, backing off",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
			)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", &ai.ProviderError{Provider: providerName, Err: ctx.Err()}
			}
		}

		content, err := c.complete(ctx, req)
		if err == nil {
			return content, nil
		}
		lastErr = err

		var provErr *ai.ProviderError
		if !errors.As(err, &provErr) || !provErr.IsRateLimit() {
			return "", err
		}
	}
	return "", lastErr
}

func (c *Client) complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &ai.ProviderError{Provider: providerName, Err: err}
	}

	body := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", &ai.ProviderError{Provider: providerName, Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", &ai.ProviderError{Provider: providerName, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", &ai.ProviderError{Provider: providerName, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ai.ProviderError{Provider: providerName, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ai.ProviderError{Provider: providerName, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(raw, &chatResp); err != nil {
		return "", &ai.ProviderError{Provider: providerName, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", &ai.ProviderError{Provider: providerName, Err: fmt.Errorf("empty response")}
	}

	return chatResp.Choices[0].Message.Content, nil
}
