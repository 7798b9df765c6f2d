// Package factory selects the configured LLM provider. Provider dispatch is a
// closed set decided once at startup, never re-branched per call.
package factory

import (
	"fmt"

	"ai-travelplanner-be/pkg/llm"
	"ai-travelplanner-be/pkg/llm/github"
	"ai-travelplanner-be/pkg/llm/openai"
)

// NewLLMProvider builds the provider named by providerType. Unknown names and
// missing credentials are configuration errors: fatal, surfaced immediately,
// never retried.
func NewLLMProvider(providerType string, cfg llm.Config) (llm.Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key not set for provider %q", llm.ErrConfiguration, providerType)
	}

	switch providerType {
	case "openai":
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://api.openai.com/v1"
		}
		return openai.NewOpenAIProvider("openai", cfg), nil
	case "vectorengine":
		// OpenAI-compatible endpoint, different default base.
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://api.vectorengine.ai/v1"
		}
		return openai.NewOpenAIProvider("vectorengine", cfg), nil
	case "github":
		return github.NewGitHubProvider(cfg), nil
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", llm.ErrConfiguration, providerType)
	}
}
