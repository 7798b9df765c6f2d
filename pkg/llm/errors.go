package llm

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks a fatal setup problem: missing credentials or an
// unsupported provider name. Never retried.
var ErrConfiguration = errors.New("llm: configuration error")

// ErrProvider marks a network/HTTP failure or an unexpected response envelope
// from an external provider. It fails the whole generation; the retry loop in
// pkg/agent only re-prompts on malformed output, not on provider errors.
var ErrProvider = errors.New("llm: provider error")

// ProviderError wraps a provider failure with its origin for diagnostics.
type ProviderError struct {
	Provider string
	Status   int // HTTP status when applicable, 0 otherwise
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("provider %s returned status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return ErrProvider
}

// NewProviderError wraps err as a ProviderError. status may be 0 when the
// failure never produced an HTTP response.
func NewProviderError(provider string, status int, err error) error {
	return &ProviderError{Provider: provider, Status: status, Err: err}
}
