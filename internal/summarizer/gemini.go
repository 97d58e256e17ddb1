package summarizer

import (
	"context"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini backend. BaseURL overrides the API
// endpoint, for tests.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	BaseURL string
}

type geminiModel struct {
	apiKey  string
	model   string
	timeout time.Duration
	baseURL string
}

// NewGemini creates a LanguageModel backed by the Gemini API.
func NewGemini(cfg GeminiConfig) LanguageModel {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &geminiModel{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		baseURL: cfg.BaseURL,
	}
}

func (g *geminiModel) Name() string {
	return "gemini"
}

func (g *geminiModel) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return "", NewError(g.Name(), CategoryAuth, "create client", err)
	}

	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", g.classify(err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", NewError(g.Name(), CategoryContentPolicy, "response blocked or empty", nil)
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	return text.String(), nil
}

// classify maps Gemini errors onto the normalized categories. The SDK does
// not expose structured status codes for every failure mode, so this matches
// on the rendered message the way quota errors actually surface.
func (g *geminiModel) classify(err error) *Error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return NewError(g.Name(), CategoryRateLimited, "generate content", err)
	case strings.Contains(msg, "deadline exceeded"),
		strings.Contains(msg, "timeout"):
		return NewError(g.Name(), CategoryTimeout, "generate content", err)
	case strings.Contains(msg, "500"),
		strings.Contains(msg, "503"),
		strings.Contains(msg, "UNAVAILABLE"),
		strings.Contains(msg, "INTERNAL"):
		return NewError(g.Name(), CategoryServer, "generate content", err)
	case strings.Contains(msg, "API key"),
		strings.Contains(msg, "401"),
		strings.Contains(msg, "403"),
		strings.Contains(msg, "PERMISSION_DENIED"):
		return NewError(g.Name(), CategoryAuth, "generate content", err)
	default:
		return NewError(g.Name(), CategoryInvalid, "generate content", err)
	}
}
