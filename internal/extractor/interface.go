package extractor

import "context"

// Method identifies which extraction strategy produced the text.
type Method string

const (
	MethodPrimary  Method = "primary"
	MethodFallback Method = "fallback"
)

// Extraction is the result of pulling the text layer out of a PDF.
type Extraction struct {
	Text      string
	Method    Method
	PageCount int
}

// Extractor turns raw PDF bytes into plain text. It never touches disk.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*Extraction, error)
}
