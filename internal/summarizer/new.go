package summarizer

import (
	"github.com/nguyentantai21042004/paper-flow/internal/logger"
	"github.com/nguyentantai21042004/paper-flow/pkg/retry"
)

type implSummarizer struct {
	model  LanguageModel
	policy retry.Policy
	logger logger.Logger
}

// New creates a Summarizer on top of the given language model. Transient
// model failures are retried according to policy.
func New(model LanguageModel, policy retry.Policy, log logger.Logger) Summarizer {
	return &implSummarizer{
		model:  model,
		policy: policy,
		logger: log,
	}
}
