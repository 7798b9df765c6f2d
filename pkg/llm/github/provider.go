// Package github implements the llm.Provider contract against the GitHub
// Models inference endpoint.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-travelplanner-be/pkg/llm"
)

type GitHubProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

// Ensure GitHubProvider implements Provider
var _ llm.Provider = &GitHubProvider{}

func NewGitHubProvider(cfg llm.Config) *GitHubProvider {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://models.github.ai/inference"
	}
	return &GitHubProvider{
		BaseURL: baseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Client:  &http.Client{Timeout: timeout},
	}
}

// --- Request/Response structs (internal to this package) ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// --- Interface Implementation ---

func (g *GitHubProvider) Name() string {
	return "github"
}

// Complete posts a two-message conversation. GitHub Models speaks the
// OpenAI chat shape but does not accept a response_format field, so the
// JSON-only requirement rides in the prompts instead.
func (g *GitHubProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, options ...llm.Option) (string, error) {
	opts := llm.ApplyOptions(options...)

	reqBody := chatRequest{
		Model: g.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: llm.DefaultTemperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", llm.NewProviderError("github", 0, fmt.Errorf("marshal request: %w", err))
	}

	url := strings.TrimRight(g.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", llm.NewProviderError("github", 0, err)
	}
	httpReq.Header.Set("Accept", "application/vnd.github+json")
	httpReq.Header.Set("Authorization", "Bearer "+g.APIKey)
	httpReq.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return "", llm.NewProviderError("github", 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", llm.NewProviderError("github", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", llm.NewProviderError("github", resp.StatusCode, fmt.Errorf("%s", truncateBody(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", llm.NewProviderError("github", resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	if opts.Usage != nil {
		opts.Usage.Record(parsed.Usage.TotalTokens)
	}

	if len(parsed.Choices) == 0 {
		return "", llm.NewProviderError("github", resp.StatusCode, fmt.Errorf("response has no choices"))
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncateBody(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
