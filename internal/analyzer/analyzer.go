// Package analyzer calls the remote text-generation API.
package analyzer

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

	"github.com/google/uuid"
)

// MaxCompletionTokens caps the length of a generated analysis.
const MaxCompletionTokens = 150

const analysisPrompt = "Analyze the following business document and provide a summary:\n\n"

// ErrNoAPIKey is returned when the client is constructed without a key.
var ErrNoAPIKey = errors.New("no API key configured")

// Client talks to an OpenAI-compatible completions endpoint. Failures are
// surfaced to the caller; there is no retry policy.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client for the given endpoint and model.
func New(baseURL, apiKey, model string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 120 * time.Second},
		logger:  logger,
	}
}

// Analyze submits content for analysis and returns the generated text
// along with the tokens the API actually billed.
func (c *Client) Analyze(ctx context.Context, content string) (*Result, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	requestID := uuid.New().String()

	body, err := json.Marshal(completionRequest{
		Model:     c.model,
		Prompt:    analysisPrompt + content,
		MaxTokens: MaxCompletionTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call generation API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("generation API: %s (status %d)",
				apiErr.Error.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("generation API: status %d", resp.StatusCode)
	}

	var completion completionResponse
	if err := json.Unmarshal(data, &completion); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("generation API: empty response")
	}

	result := &Result{
		Text:      strings.TrimSpace(completion.Choices[0].Text),
		RequestID: requestID,
	}
	if completion.Usage != nil {
		result.PromptTokens = completion.Usage.PromptTokens
		result.CompletionTokens = completion.Usage.CompletionTokens
	}

	c.logger.Info("analysis complete",
		"request_id", requestID,
		"model", c.model,
		"prompt_tokens", result.PromptTokens,
		"completion_tokens", result.CompletionTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}
