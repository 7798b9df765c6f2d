package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-travelplanner-be/pkg/llm"
)

type scriptedProvider struct {
	responses []string
	prompts   []string
	err       error
}

func (s *scriptedProvider) Complete(_ context.Context, _, userPrompt string, _ ...llm.Option) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.prompts = append(s.prompts, userPrompt)
	if len(s.responses) == 0 {
		return "", fmt.Errorf("script exhausted")
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	return next, nil
}

func (s *scriptedProvider) Name() string { return "scripted" }

func TestRunnerSucceedsOnThirdAttempt(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"not json",
		"still not json",
		`{"ok": true}`,
	}}
	r := NewRunner(NewCaller(provider, nil), 3)

	data, err := r.Run(context.Background(), "system", "first prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, true, data["ok"])

	require.Len(t, provider.prompts, 3)
	assert.Equal(t, "first prompt", provider.prompts[0])
	assert.Contains(t, provider.prompts[1], "Previous output was invalid JSON.")
	assert.Contains(t, provider.prompts[2], "Previous output was invalid JSON.")
}

func TestRunnerValidatorFailureRetries(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"days": 2}`,
		`{"days": 3}`,
	}}
	r := NewRunner(NewCaller(provider, nil), 3)

	validate := func(data map[string]interface{}) error {
		if data["days"] != float64(3) {
			return fmt.Errorf("days must be 3")
		}
		return nil
	}
	data, err := r.Run(context.Background(), "system", "prompt", validate)
	require.NoError(t, err)
	assert.Equal(t, float64(3), data["days"])
	assert.Contains(t, provider.prompts[1], "days must be 3")
}

func TestRunnerExhaustion(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"junk", "junk", "junk"}}
	r := NewRunner(NewCaller(provider, nil), 3)

	_, err := r.Run(context.Background(), "system", "prompt", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPipelineExhausted)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.ErrorIs(t, exhausted.Last, ErrMalformedOutput)
}

func TestRunnerProviderErrorAborts(t *testing.T) {
	provider := &scriptedProvider{err: llm.NewProviderError("scripted", 500, fmt.Errorf("boom"))}
	r := NewRunner(NewCaller(provider, nil), 3)

	_, err := r.Run(context.Background(), "system", "prompt", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrProvider)
	assert.Empty(t, provider.prompts, "no retry on provider failure")
}
