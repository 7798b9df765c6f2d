package agent

import (
	"context"

	"ai-travelplanner-be/pkg/llm"
	"ai-travelplanner-be/pkg/telemetry"
)

// Caller sends one (system prompt, user prompt) pair to the configured
// provider. It binds the request-scoped usage sink so every call it makes is
// accounted to the right request.
type Caller struct {
	provider llm.Provider
	usage    *telemetry.UsageSink
}

// NewCaller wires a provider to a usage sink. The sink may be nil when
// auditing is disabled.
func NewCaller(provider llm.Provider, usage *telemetry.UsageSink) *Caller {
	return &Caller{provider: provider, usage: usage}
}

// Call returns the raw completion text. Provider failures surface as
// llm.ErrProvider and are not retried here.
func (c *Caller) Call(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.provider.Complete(ctx, systemPrompt, userPrompt, llm.WithUsage(c.usage))
}
