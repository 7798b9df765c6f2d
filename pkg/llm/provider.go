package llm

import (
	"context"
	"encoding/json"

	"ai-travelplanner-be/pkg/telemetry"
)

// ResponseFormat selects how the provider is asked to constrain its output.
type ResponseFormat string

const (
	// FormatJSONObject requests a generic "JSON object" response mode.
	FormatJSONObject ResponseFormat = "json_object"
	// FormatJSONSchema requests a strict schema-constrained completion.
	FormatJSONSchema ResponseFormat = "json_schema"
)

// DefaultTemperature is fixed low to favor deterministic pipeline output.
// It is intentionally not user-configurable.
const DefaultTemperature = 0.2

// Option allows for optional per-call parameters.
type Option func(*CallOptions)

type CallOptions struct {
	// Usage receives the provider-reported token count for this call.
	Usage *telemetry.UsageSink
}

// WithUsage attaches the request-scoped usage sink to a call.
func WithUsage(sink *telemetry.UsageSink) Option {
	return func(o *CallOptions) {
		o.Usage = sink
	}
}

// ApplyOptions folds a list of options into a CallOptions value.
func ApplyOptions(options ...Option) *CallOptions {
	opts := &CallOptions{}
	for _, opt := range options {
		opt(opts)
	}
	return opts
}

// Provider defines the contract for any LLM backend. Implementations build a
// two-message conversation (system + user) and return the raw completion text.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, options ...Option) (string, error)

	// Name returns the provider identifier ("openai", "github", ...).
	Name() string
}

// Config carries everything a provider needs at construction time. Schema and
// SchemaName are only consulted when Format is FormatJSONSchema.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Format         ResponseFormat
	TimeoutSeconds int
	SchemaName     string
	Schema         json.RawMessage
}
