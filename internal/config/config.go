package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Claude      ClaudeConfig      `yaml:"claude"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	ElevenLabs  ElevenLabsConfig  `yaml:"elevenlabs"`
	Retry       RetryConfig       `yaml:"retry"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// PipelineConfig controls the document-to-audio run itself.
type PipelineConfig struct {
	// Provider selects the summarization backend: "claude" or "gemini".
	Provider      string `yaml:"provider"`
	TargetMinutes int    `yaml:"target_minutes"`
	MaxInputChars int    `yaml:"max_input_chars"`
	MinTextChars  int    `yaml:"min_text_chars"`
}

type ClaudeConfig struct {
	Model             string `yaml:"model"`
	MaxOutputTokens   int    `yaml:"max_output_tokens"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

type GeminiConfig struct {
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ElevenLabsConfig struct {
	VoiceID           string `yaml:"voice_id"`
	Model             string `yaml:"model"`
	OutputFormat      string `yaml:"output_format"`
	MaxChunkChars     int    `yaml:"max_chunk_chars"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts"`
	InitialBackoffMS int `yaml:"initial_backoff_ms"`
	MaxBackoffMS     int `yaml:"max_backoff_ms"`
}

// Load reads a YAML config file, applies defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	switch c.Pipeline.Provider {
	case "":
		c.Pipeline.Provider = "claude"
	case "claude", "gemini":
	default:
		return fmt.Errorf("pipeline.provider must be \"claude\" or \"gemini\", got %q", c.Pipeline.Provider)
	}

	if c.Pipeline.TargetMinutes < 0 {
		return fmt.Errorf("pipeline.target_minutes must not be negative")
	}
	if c.Pipeline.MaxInputChars < 0 {
		return fmt.Errorf("pipeline.max_input_chars must not be negative")
	}

	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Pipeline.TargetMinutes == 0 {
		c.Pipeline.TargetMinutes = 3
	}
	if c.Pipeline.MaxInputChars == 0 {
		// (100k tokens - 1k prompt buffer) * ~4 chars per token
		c.Pipeline.MaxInputChars = 396_000
	}
	if c.Pipeline.MinTextChars == 0 {
		c.Pipeline.MinTextChars = 100
	}
	if c.Claude.Model == "" {
		c.Claude.Model = "claude-sonnet-4-0"
	}
	if c.Claude.MaxOutputTokens == 0 {
		c.Claude.MaxOutputTokens = 2000
	}
	if c.Claude.TimeoutSeconds == 0 {
		c.Claude.TimeoutSeconds = 120
	}
	if c.Claude.RequestsPerMinute == 0 {
		c.Claude.RequestsPerMinute = 20
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.TimeoutSeconds == 0 {
		c.Gemini.TimeoutSeconds = 120
	}
	if c.ElevenLabs.VoiceID == "" {
		c.ElevenLabs.VoiceID = "21m00Tcm4TlvDq8ikWAM"
	}
	if c.ElevenLabs.Model == "" {
		c.ElevenLabs.Model = "eleven_multilingual_v2"
	}
	if c.ElevenLabs.OutputFormat == "" {
		c.ElevenLabs.OutputFormat = "mp3_44100_128"
	}
	if c.ElevenLabs.MaxChunkChars == 0 {
		c.ElevenLabs.MaxChunkChars = 5000
	}
	if c.ElevenLabs.TimeoutSeconds == 0 {
		c.ElevenLabs.TimeoutSeconds = 60
	}
	if c.ElevenLabs.RequestsPerMinute == 0 {
		c.ElevenLabs.RequestsPerMinute = 30
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.InitialBackoffMS == 0 {
		c.Retry.InitialBackoffMS = 500
	}
	if c.Retry.MaxBackoffMS == 0 {
		c.Retry.MaxBackoffMS = 8000
	}

	return nil
}
