package planner

import (
	"context"

	"ai-travelplanner-be/pkg/dualrate"
	"ai-travelplanner-be/pkg/llm"
)

// NewSummarizer adapts the configured provider into the dual-rate
// compressor's summarization backend.
func NewSummarizer(provider llm.Provider) dualrate.Summarizer {
	return func(ctx context.Context, text string, maxTokens int) (string, error) {
		return provider.Complete(ctx, SystemGuard, SummarizePrompt(text, maxTokens))
	}
}
