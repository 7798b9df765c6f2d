package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ai-travelplanner-be/pkg/llm"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider generates embeddings through an OpenAI-compatible
// /embeddings endpoint. GitHub Models exposes the same shape, so both LLM
// provider choices share this implementation.
type OpenAIProvider struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

var _ EmbeddingProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, baseURL, model string, timeoutSeconds int) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.EmbeddingModel(model),
	}
}

func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return nil, llm.NewProviderError("embedding", 0, err)
	}
	if len(resp.Data) == 0 {
		return nil, llm.NewProviderError("embedding", 0, fmt.Errorf("response has no data"))
	}
	return resp.Data[0].Embedding, nil
}
