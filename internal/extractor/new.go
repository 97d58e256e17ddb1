package extractor

import (
	"github.com/nguyentantai21042004/paper-flow/internal/logger"
)

type implExtractor struct {
	strategies   []strategy
	minTextChars int
	logger       logger.Logger
}

// New creates an Extractor that tries each strategy in order until one yields
// usable text. minTextChars is the minimum number of non-whitespace runes a
// result must contain to count as a real text layer.
func New(minTextChars int, log logger.Logger) Extractor {
	if minTextChars <= 0 {
		minTextChars = 100
	}
	return &implExtractor{
		strategies: []strategy{
			&plainTextStrategy{},
			&contentStreamStrategy{},
		},
		minTextChars: minTextChars,
		logger:       log,
	}
}

// strategy is one way of getting text out of a PDF. Strategies are evaluated
// in order; adding a third one does not touch the orchestrator.
type strategy interface {
	method() Method
	extract(data []byte) (text string, pageCount int, err error)
}
