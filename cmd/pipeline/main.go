package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/paper-flow/internal/config"
	"github.com/nguyentantai21042004/paper-flow/internal/extractor"
	"github.com/nguyentantai21042004/paper-flow/internal/logger"
	"github.com/nguyentantai21042004/paper-flow/internal/pipeline"
	"github.com/nguyentantai21042004/paper-flow/internal/summarizer"
	"github.com/nguyentantai21042004/paper-flow/internal/synthesizer"
	"github.com/nguyentantai21042004/paper-flow/internal/watcher"
	"github.com/nguyentantai21042004/paper-flow/pkg/retry"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Paper to Audio Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Summarization provider: %s", cfg.Pipeline.Provider)
	log.Info(ctx, "Target duration: %d minutes", cfg.Pipeline.TargetMinutes)
	log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Configuration loaded successfully")

	// Verify required directories exist
	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	p, err := buildPipeline(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to build pipeline: %v", err)
		os.Exit(1)
	}

	handler := newHandler(cfg, p, log)

	// Create watcher with the pipeline handler and concurrency control
	w, err := watcher.New(cfg.Paths.Input, handler, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start watcher in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Paper Pipeline is ready!")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}

	// Graceful shutdown
	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	log.Info(ctx, "Paper Pipeline stopped")
}

// buildPipeline wires the stage components from configuration. API keys come
// from the environment so they never land in the config file.
func buildPipeline(cfg *config.Config, log logger.Logger) (pipeline.Pipeline, error) {
	policy := retry.Policy{
		MaxAttempts:    cfg.Retry.MaxAttempts,
		InitialBackoff: time.Duration(cfg.Retry.InitialBackoffMS) * time.Millisecond,
		MaxBackoff:     time.Duration(cfg.Retry.MaxBackoffMS) * time.Millisecond,
	}

	var model summarizer.LanguageModel
	switch cfg.Pipeline.Provider {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		model = summarizer.NewClaude(summarizer.ClaudeConfig{
			APIKey:            apiKey,
			Model:             cfg.Claude.Model,
			MaxOutputTokens:   cfg.Claude.MaxOutputTokens,
			Timeout:           time.Duration(cfg.Claude.TimeoutSeconds) * time.Second,
			RequestsPerMinute: cfg.Claude.RequestsPerMinute,
		})
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		model = summarizer.NewGemini(summarizer.GeminiConfig{
			APIKey:  apiKey,
			Model:   cfg.Gemini.Model,
			Timeout: time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown summarization provider %q", cfg.Pipeline.Provider)
	}

	elevenKey := os.Getenv("ELEVENLABS_API_KEY")
	if elevenKey == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY is not set")
	}
	speech := synthesizer.NewElevenLabs(synthesizer.ElevenLabsConfig{
		APIKey:            elevenKey,
		Model:             cfg.ElevenLabs.Model,
		OutputFormat:      cfg.ElevenLabs.OutputFormat,
		Timeout:           time.Duration(cfg.ElevenLabs.TimeoutSeconds) * time.Second,
		RequestsPerMinute: cfg.ElevenLabs.RequestsPerMinute,
	})

	ext := extractor.New(cfg.Pipeline.MinTextChars, log)
	sum := summarizer.New(model, policy, log)
	synth := synthesizer.New(speech, cfg.ElevenLabs.MaxChunkChars, policy, log)

	return pipeline.New(ext, sum, synth, pipeline.Config{
		MaxInputChars:  cfg.Pipeline.MaxInputChars,
		TargetDuration: time.Duration(cfg.Pipeline.TargetMinutes) * time.Minute,
		VoiceID:        cfg.ElevenLabs.VoiceID,
	}, log), nil
}

// newHandler returns the watcher callback: run one PDF through the pipeline,
// write the audio and transcript next to each other, then archive the source.
func newHandler(cfg *config.Config, p pipeline.Pipeline, log logger.Logger) watcher.EventHandler {
	return func(ctx context.Context, filePath string) error {
		name := filepath.Base(filePath)

		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		result, err := p.Process(ctx, name, data, pipeline.Options{})
		if err != nil {
			return fmt.Errorf("process %s: %w", name, err)
		}

		base := strings.TrimSuffix(name, filepath.Ext(name))
		audioPath := filepath.Join(cfg.Paths.Output, base+"_summary.mp3")
		if err := os.WriteFile(audioPath, result.Audio.Data, 0644); err != nil {
			return fmt.Errorf("write audio %s: %w", audioPath, err)
		}

		textPath := filepath.Join(cfg.Paths.Output, base+"_summary.txt")
		if err := os.WriteFile(textPath, []byte(result.Summary.Text), 0644); err != nil {
			return fmt.Errorf("write transcript %s: %w", textPath, err)
		}

		// Move the processed source out of the watched directory
		archived := filepath.Join(cfg.Paths.Archived, name)
		if err := os.Rename(filePath, archived); err != nil {
			log.Warn(ctx, "Could not archive %s: %v", name, err)
		}

		log.Info(ctx, "Done: %s (~%s of audio, ~$%.4f)",
			name, result.Audio.EstimatedDuration.Round(time.Second), result.Summary.EstimatedCostUSD)
		return nil
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
