// Package openai implements the llm.Provider contract on top of any
// OpenAI-compatible chat completions endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ai-travelplanner-be/pkg/llm"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client *openai.Client
	cfg    llm.Config
	name   string
}

// Ensure OpenAIProvider implements Provider
var _ llm.Provider = &OpenAIProvider{}

// NewOpenAIProvider builds a provider against cfg.BaseURL. The name is kept
// separate from the transport so "vectorengine" and other OpenAI-compatible
// endpoints can share this implementation.
func NewOpenAIProvider(name string, cfg llm.Config) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		name:   name,
	}
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, options ...llm.Option) (string, error) {
	opts := llm.ApplyOptions(options...)

	req := openai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		Temperature: llm.DefaultTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: p.responseFormat(),
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", llm.NewProviderError(p.name, statusOf(err), err)
	}

	if opts.Usage != nil {
		opts.Usage.Record(resp.Usage.TotalTokens)
	}

	if len(resp.Choices) == 0 {
		return "", llm.NewProviderError(p.name, 0, fmt.Errorf("response has no choices (id=%s)", resp.ID))
	}
	return resp.Choices[0].Message.Content, nil
}

// responseFormat maps the configured mode onto the wire request. For
// json_schema the final-response schema is attached in strict mode, which is
// what keeps the Integrator output parseable on the first attempt most of the
// time.
func (p *OpenAIProvider) responseFormat() *openai.ChatCompletionResponseFormat {
	if p.cfg.Format == llm.FormatJSONSchema && len(p.cfg.Schema) > 0 {
		name := p.cfg.SchemaName
		if name == "" {
			name = "response"
		}
		return &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   name,
				Schema: p.cfg.Schema,
				Strict: true,
			},
		}
	}
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}
}

// statusOf extracts the HTTP status from a go-openai API error, if any.
func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
