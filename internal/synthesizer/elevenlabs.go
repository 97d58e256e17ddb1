package synthesizer

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
	elevenLabsBaseURL = "https://api.elevenlabs.io"

	elevenLabsDefaultStability       = 0.5
	elevenLabsDefaultSimilarityBoost = 0.75
)

// ElevenLabsConfig configures the ElevenLabs TTS client.
type ElevenLabsConfig struct {
	APIKey            string
	Model             string
	OutputFormat      string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

type elevenLabsService struct {
	apiKey       string
	model        string
	outputFormat string
	baseURL      string
	timeout      time.Duration
	client       *http.Client
	limiter      *rate.Limiter
}

// NewElevenLabs creates a SpeechService backed by the ElevenLabs API.
func NewElevenLabs(cfg ElevenLabsConfig) SpeechService {
	if cfg.Model == "" {
		cfg.Model = "eleven_multilingual_v2"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "mp3_44100_128"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = elevenLabsBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = 30
	}

	return &elevenLabsService{
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		outputFormat: cfg.OutputFormat,
		baseURL:      cfg.BaseURL,
		timeout:      cfg.Timeout,
		client:       &http.Client{Timeout: cfg.Timeout},
		limiter:      rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
	}
}

func (s *elevenLabsService) Name() string {
	return "elevenlabs"
}

type elevenLabsRequest struct {
	Text          string                   `json:"text"`
	ModelID       string                   `json:"model_id,omitempty"`
	VoiceSettings *elevenLabsVoiceSettings `json:"voice_settings,omitempty"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type elevenLabsErrorResponse struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}

// Speak synthesizes one chunk of text with the given voice. Failures come
// back as *Error with the category already resolved.
func (s *elevenLabsService) Speak(ctx context.Context, text, voiceID string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, NewError(s.Name(), CategoryTimeout, "rate limiter wait", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reqBody, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: s.model,
		VoiceSettings: &elevenLabsVoiceSettings{
			Stability:       elevenLabsDefaultStability,
			SimilarityBoost: elevenLabsDefaultSimilarityBoost,
		},
	})
	if err != nil {
		return nil, NewError(s.Name(), CategoryInvalid, "marshal request", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s", s.baseURL, voiceID, s.outputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, NewError(s.Name(), CategoryInvalid, "create request", err)
	}
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, NewError(s.Name(), CategoryTimeout, "request timed out", err)
		}
		return nil, NewError(s.Name(), CategoryServer, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, s.handleError(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewError(s.Name(), CategoryServer, "read audio", err)
	}

	return audio, nil
}

func (s *elevenLabsService) handleError(resp *http.Response) *Error {
	message := fmt.Sprintf("http %d", resp.StatusCode)
	var errResp elevenLabsErrorResponse
	if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Detail.Message != "" {
		message = errResp.Detail.Message
	}

	var category Category
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		category = CategoryRateLimited
	case resp.StatusCode >= 500:
		category = CategoryServer
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		category = CategoryAuth
	case resp.StatusCode == http.StatusNotFound:
		category = CategoryVoice
	default:
		category = CategoryInvalid
	}

	return NewError(s.Name(), category, message, nil)
}
