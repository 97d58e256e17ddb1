package synthesizer

import "fmt"

// Category normalizes provider-specific synthesis failures.
type Category string

const (
	CategoryRateLimited Category = "rate_limited"
	CategoryTimeout     Category = "timeout"
	CategoryServer      Category = "server_error"
	CategoryAuth        Category = "auth"
	CategoryInvalid     Category = "invalid_request"
	CategoryVoice       Category = "invalid_voice"
	CategoryEmpty       Category = "empty_audio"
)

// Error is the normalized synthesis failure. ChunkIndex identifies which
// chunk of a multi-chunk request failed; -1 means the failure was not tied to
// a specific chunk.
type Error struct {
	Provider   string
	Category   Category
	ChunkIndex int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Provider + ": " + string(e.Category)
	if e.ChunkIndex >= 0 {
		msg += fmt.Sprintf(" (chunk %d)", e.ChunkIndex)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the failure is transient.
func (e *Error) Retryable() bool {
	switch e.Category {
	case CategoryRateLimited, CategoryTimeout, CategoryServer:
		return true
	}
	return false
}

// NewError creates a normalized synthesis error not tied to any chunk.
func NewError(provider string, category Category, message string, cause error) *Error {
	return &Error{
		Provider:   provider,
		Category:   category,
		ChunkIndex: -1,
		Message:    message,
		Cause:      cause,
	}
}
