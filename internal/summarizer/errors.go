package summarizer

// Category normalizes provider-specific failures so callers never depend on a
// specific SDK's error hierarchy.
type Category string

const (
	CategoryRateLimited   Category = "rate_limited"
	CategoryTimeout       Category = "timeout"
	CategoryServer        Category = "server_error"
	CategoryAuth          Category = "auth"
	CategoryInvalid       Category = "invalid_request"
	CategoryContentPolicy Category = "content_policy"
	CategoryEmpty         Category = "empty_response"
)

// Error is the normalized summarization failure crossing the component
// boundary. Retryability is derived from the category.
type Error struct {
	Provider string
	Category Category
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	msg := e.Provider + ": " + string(e.Category)
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

// Retryable reports whether the failure is transient. Rate limits, timeouts
// and server errors may succeed on retry; auth, validation, content policy
// and empty responses will not.
func (e *Error) Retryable() bool {
	switch e.Category {
	case CategoryRateLimited, CategoryTimeout, CategoryServer:
		return true
	}
	return false
}

// NewError creates a normalized summarization error.
func NewError(provider string, category Category, message string, cause error) *Error {
	return &Error{
		Provider: provider,
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}
