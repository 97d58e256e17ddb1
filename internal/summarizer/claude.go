package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	claudeBaseURL    = "https://api.anthropic.com"
	claudeAPIVersion = "2023-06-01"

	// Low temperature keeps summaries factual and reproducible.
	claudeTemperature = 0.1
)

// ClaudeConfig configures the Anthropic messages API client.
type ClaudeConfig struct {
	APIKey            string
	Model             string
	MaxOutputTokens   int
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

type claudeModel struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	timeout   time.Duration
	client    *http.Client
	limiter   *rate.Limiter
}

// NewClaude creates a LanguageModel backed by the Anthropic messages API.
func NewClaude(cfg ClaudeConfig) LanguageModel {
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-0"
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 2000
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = claudeBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = 20
	}

	return &claudeModel{
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxOutputTokens,
		baseURL:   cfg.BaseURL,
		timeout:   cfg.Timeout,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
	}
}

func (c *claudeModel) Name() string {
	return "claude"
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type claudeErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one messages-API request and returns the generated text.
// Failures come back as *Error with the category already resolved.
func (c *claudeModel) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", NewError(c.Name(), CategoryTimeout, "rate limiter wait", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody, err := json.Marshal(claudeRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: claudeTemperature,
		Messages:    []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", NewError(c.Name(), CategoryInvalid, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(reqBody))
	if err != nil {
		return "", NewError(c.Name(), CategoryInvalid, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", claudeAPIVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", NewError(c.Name(), CategoryTimeout, "request timed out", err)
		}
		return "", NewError(c.Name(), CategoryServer, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewError(c.Name(), CategoryServer, "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.classifyHTTPError(resp.StatusCode, body)
	}

	var out claudeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", NewError(c.Name(), CategoryServer, "unmarshal response", err)
	}
	if len(out.Content) == 0 {
		return "", NewError(c.Name(), CategoryEmpty, "response has no content blocks", nil)
	}

	return out.Content[0].Text, nil
}

func (c *claudeModel) classifyHTTPError(status int, body []byte) *Error {
	message := fmt.Sprintf("http %d", status)
	var errResp claudeErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	var category Category
	switch {
	case status == http.StatusTooManyRequests:
		category = CategoryRateLimited
	case status == http.StatusRequestTimeout:
		category = CategoryTimeout
	case status >= 500:
		category = CategoryServer
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		category = CategoryAuth
	case errResp.Error.Type == "invalid_request_error" && status == http.StatusBadRequest:
		category = CategoryInvalid
	default:
		category = CategoryInvalid
	}

	return NewError(c.Name(), category, message, nil)
}
