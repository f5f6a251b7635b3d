// Package inference provides a thin client for the external
// text-completion service. It issues single request/response exchanges
// against a chat-completions endpoint with bearer authentication and a
// per-call timeout; it never retries and never interprets the returned
// text beyond extracting the first choice.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Chat message roles accepted by the completion endpoint.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ErrUnavailable indicates the inference service could not produce a
// completion: connection failure, timeout, or a non-2xx response.
// Callers degrade the affected extraction pass to an empty result.
var ErrUnavailable = errors.New("inference service unavailable")

// Message is a single entry in the ordered prompt exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client issues completion calls against the configured endpoint.
type Client struct {
	endpoint        string
	token           string
	model           string
	maxTokens       int
	timeout         time.Duration
	analysisTimeout time.Duration
	http            *http.Client
	logger          *slog.Logger
}

// New creates a Client from the given configuration.
func New(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		endpoint:        strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		token:           cfg.Token,
		model:           cfg.Model,
		maxTokens:       cfg.MaxTokens,
		timeout:         cfg.TimeoutDuration(),
		analysisTimeout: cfg.AnalysisTimeoutDuration(),
		http:            &http.Client{},
		logger:          logger.With("system", "inference"),
	}
}

// Complete sends the ordered message list and returns the raw completion
// text. maxTokens of 0 uses the configured default budget.
func (c *Client) Complete(ctx context.Context, msgs []Message, maxTokens int) (string, error) {
	return c.complete(ctx, msgs, maxTokens, c.timeout)
}

// CompleteLarge behaves like Complete with the extended timeout reserved
// for large-file analysis calls.
func (c *Client) CompleteLarge(ctx context.Context, msgs []Message, maxTokens int) (string, error) {
	return c.complete(ctx, msgs, maxTokens, c.analysisTimeout)
}

func (c *Client) complete(ctx context.Context, msgs []Message, maxTokens int, timeout time.Duration) (string, error) {
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	body, err := json.Marshal(completionRequest{
		Model:     c.model,
		Messages:  msgs,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("completion call failed", "error", err, "duration", time.Since(start))
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("completion call rejected", "status", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, raw)
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}

	c.logger.Debug("completion call complete", "duration", time.Since(start))
	return parsed.Choices[0].Message.Content, nil
}
