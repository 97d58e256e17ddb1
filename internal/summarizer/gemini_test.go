package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGeminiClassify(t *testing.T) {
	g := &geminiModel{}

	tests := []struct {
		name          string
		err           error
		wantCategory  Category
		wantRetryable bool
	}{
		{"http 429", errors.New("Error 429: too many requests"), CategoryRateLimited, true},
		{"quota message", errors.New("quota exceeded for quota metric"), CategoryRateLimited, true},
		{"resource exhausted", errors.New("rpc error: code = RESOURCE_EXHAUSTED"), CategoryRateLimited, true},
		{"deadline exceeded", errors.New("context deadline exceeded"), CategoryTimeout, true},
		{"timeout message", errors.New("request timeout"), CategoryTimeout, true},
		{"http 500", errors.New("Error 500: internal error"), CategoryServer, true},
		{"http 503", errors.New("Error 503: service overloaded"), CategoryServer, true},
		{"unavailable", errors.New("rpc error: code = UNAVAILABLE"), CategoryServer, true},
		{"bad api key", errors.New("API key not valid"), CategoryAuth, false},
		{"permission denied", errors.New("rpc error: code = PERMISSION_DENIED"), CategoryAuth, false},
		{"unknown", errors.New("something else entirely"), CategoryInvalid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serr := g.classify(tt.err)
			if serr.Category != tt.wantCategory {
				t.Errorf("Category = %v, want %v", serr.Category, tt.wantCategory)
			}
			if serr.Retryable() != tt.wantRetryable {
				t.Errorf("Retryable() = %v, want %v", serr.Retryable(), tt.wantRetryable)
			}
			if !errors.Is(serr, tt.err) {
				t.Error("classified error does not wrap the cause")
			}
		})
	}
}

func newGeminiTestServer(t *testing.T, timeout time.Duration, handler http.HandlerFunc) LanguageModel {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewGemini(GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-2.5-flash",
		Timeout: timeout,
		BaseURL: server.URL,
	})
}

func TestGeminiCompleteSuccess(t *testing.T) {
	model := newGeminiTestServer(t, time.Minute, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %v, want POST", r.Method)
		}
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash") {
			t.Errorf("Path = %v, want the configured model in it", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"role":  "model",
					"parts": []map[string]string{{"text": "a fine summary"}},
				}},
			},
		})
	})

	got, err := model.Complete(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "a fine summary" {
		t.Errorf("Complete() = %q", got)
	}
}

func TestGeminiCompleteTimeout(t *testing.T) {
	model := newGeminiTestServer(t, 50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	})

	start := time.Now()
	_, err := model.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Complete() expected timeout error")
	}
	if elapsed := time.Since(start); elapsed >= time.Second {
		t.Errorf("Complete() returned after %v, deadline not applied", elapsed)
	}

	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if serr.Category != CategoryTimeout {
		t.Errorf("Category = %v, want %v", serr.Category, CategoryTimeout)
	}
	if !serr.Retryable() {
		t.Error("Retryable() = false, want true for a timed-out call")
	}
}

func TestGeminiCompleteBlockedResponse(t *testing.T) {
	model := newGeminiTestServer(t, time.Minute, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	_, err := model.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Complete() expected error for empty candidates")
	}

	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if serr.Category != CategoryContentPolicy {
		t.Errorf("Category = %v, want %v", serr.Category, CategoryContentPolicy)
	}
}
