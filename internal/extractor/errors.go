package extractor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoTextLayer marks a PDF that parsed fine but contains no usable text,
// typically a scanned or image-only document. Callers should surface this
// instead of letting an empty summary slip through.
var ErrNoTextLayer = errors.New("pdf has no extractable text layer")

// ErrEmptyInput is returned for an empty byte buffer.
var ErrEmptyInput = errors.New("pdf payload is empty")

// AttemptError records the outcome of one extraction strategy.
type AttemptError struct {
	Method Method
	Err    error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}

// ExtractionError is returned when every extraction strategy failed. It keeps
// the underlying cause of each attempt.
type ExtractionError struct {
	Attempts []*AttemptError
}

func (e *ExtractionError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Error())
	}
	return "text extraction failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes every attempt so errors.Is can find ErrNoTextLayer.
func (e *ExtractionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a)
	}
	return errs
}
