package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-travelplanner-be/pkg/llm"
	"ai-travelplanner-be/pkg/telemetry"
)

func newTestProvider(baseURL string) *GitHubProvider {
	return NewGitHubProvider(llm.Config{
		APIKey:         "test-token",
		BaseURL:        baseURL,
		Model:          "openai/gpt-4.1",
		TimeoutSeconds: 5,
	})
}

func TestCompleteReturnsMessageContent(t *testing.T) {
	var gotPath string
	var gotAuth string
	var gotAPIVersion string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAPIVersion = r.Header.Get("X-GitHub-Api-Version")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"ok\":true}"}}],"usage":{"total_tokens":42}}`))
	}))
	defer srv.Close()

	sink := telemetry.NewUsageSink()
	p := newTestProvider(srv.URL)

	out, err := p.Complete(context.Background(), "system", "user", llm.WithUsage(sink))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "2022-11-28", gotAPIVersion)

	calls, total, _ := sink.Summary()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 42, total)
}

func TestCompleteNonOKStatusIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)

	_, err := p.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrProvider)

	var provErr *llm.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, "github", provErr.Provider)
	assert.Equal(t, http.StatusTooManyRequests, provErr.Status)
}

func TestCompleteEmptyChoicesIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[],"usage":{"total_tokens":0}}`))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)

	_, err := p.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrProvider)
	assert.Contains(t, err.Error(), "no choices")
}

func TestCompleteMalformedBodyIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)

	_, err := p.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrProvider)
}

func TestCompleteUnreachableHostIsProviderError(t *testing.T) {
	p := newTestProvider("http://127.0.0.1:1")

	_, err := p.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrProvider)
}
