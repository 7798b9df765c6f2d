package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-travelplanner-be/pkg/agent"
	"ai-travelplanner-be/pkg/llm"
	"ai-travelplanner-be/pkg/retrieval"
)

// scriptedProvider replays canned completions and records every prompt.
type scriptedProvider struct {
	mu        sync.Mutex
	responses []string
	prompts   []string
	err       error
}

func (s *scriptedProvider) Complete(_ context.Context, _, userPrompt string, _ ...llm.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
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

func destinationFixture(name string) Destination {
	return Destination{
		Name:        name,
		Reasons:     []string{"food", "walkable"},
		BudgetRange: "600-900",
		Transport:   "train",
		BestSeason:  "spring",
	}
}

func activityFixture(title string) ActivityBlock {
	return ActivityBlock{
		Title:         title,
		Transport:     "metro",
		DurationHours: 2.5,
		CostRange:     "10-20",
		Alternatives:  []string{"tram instead"},
	}
}

func validPlanFixture(days int) PlanResponse {
	plan := PlanResponse{
		TopDestinations: []Destination{
			destinationFixture("Porto"),
			destinationFixture("Seville"),
			destinationFixture("Valencia"),
		},
		BudgetBreakdown: BudgetBreakdown{
			Transport:      "25%",
			Lodging:        "35%",
			Food:           "20%",
			Tickets:        "10%",
			LocalTransport: "10%",
		},
		Warnings: []string{"book fado shows ahead"},
	}
	for d := 1; d <= days; d++ {
		plan.DailyPlan = append(plan.DailyPlan, DayPlan{
			Day:       d,
			Morning:   activityFixture("Old town walk"),
			Afternoon: activityFixture("Museum visit"),
			Evening:   activityFixture("Riverside dinner"),
		})
	}
	return plan
}

func mustMarshal(t *testing.T, v interface{}) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

const skeletonFixture = `{"summary":"Three relaxed days in Lisbon","daily_themes":["old town","museums","coast"]}`

func lisbonRequest() PlanRequest {
	return PlanRequest{
		Destination: "Lisbon",
		StartDate:   "2026-09-05",
		Days:        3,
		Travelers:   2,
	}
}

func TestGenerateEndToEndWithoutBudgetRisk(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		skeletonFixture,
		mustMarshal(t, validPlanFixture(3)),
	}}
	p := NewPipeline(provider, nil, Config{MaxAttempts: 3}, nil, nil)

	resp, err := p.Generate(context.Background(), lisbonRequest(), "")
	require.NoError(t, err)

	assert.Len(t, resp.DailyPlan, 3)
	require.Len(t, resp.TopDestinations, 3)
	for _, d := range resp.TopDestinations {
		assert.NotEqual(t, "Lisbon", d.Name)
	}

	// Exactly two model calls: the middle stages were placeholders.
	require.Len(t, provider.prompts, 2)
	assert.Contains(t, provider.prompts[1], `"budget_breakdown":{}`)
	assert.Contains(t, provider.prompts[1], `"risks":[]`)
}

func TestGenerateRunsBudgetAndRiskStages(t *testing.T) {
	// Budget and risk run concurrently, so both must accept either answer.
	stageAnswer := `{"budget_breakdown":{"transport":"30%"},"alternatives":[],"risks":[],"fixes":[]}`
	provider := &scriptedProvider{responses: []string{
		skeletonFixture,
		stageAnswer,
		stageAnswer,
		mustMarshal(t, validPlanFixture(3)),
	}}
	p := NewPipeline(provider, nil, Config{MaxAttempts: 3, BudgetRisk: true}, nil, nil)

	_, err := p.Generate(context.Background(), lisbonRequest(), "")
	require.NoError(t, err)
	assert.Len(t, provider.prompts, 4)
}

func TestIntegratorRecoversOnThirdAttempt(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		skeletonFixture,
		"not json at all",
		`{"top_destinations":[],"daily_plan":[],"budget_breakdown":{},"warnings":[]}`,
		mustMarshal(t, validPlanFixture(3)),
	}}
	p := NewPipeline(provider, nil, Config{MaxAttempts: 3}, nil, nil)

	resp, err := p.Generate(context.Background(), lisbonRequest(), "")
	require.NoError(t, err)
	assert.Len(t, resp.DailyPlan, 3)

	require.Len(t, provider.prompts, 4)
	assert.Contains(t, provider.prompts[2], "Previous output failed validation:")
	assert.Contains(t, provider.prompts[3], "Previous output failed validation:")
}

func TestIntegratorExhaustionReportsLastError(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		skeletonFixture,
		"junk",
		"junk",
		mustMarshal(t, validPlanFixture(5)), // wrong day count, still invalid
	}}
	p := NewPipeline(provider, nil, Config{MaxAttempts: 3}, nil, nil)

	_, err := p.Generate(context.Background(), lisbonRequest(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, agent.ErrPipelineExhausted)

	var exhausted *agent.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Contains(t, exhausted.Last.Error(), "daily_plan must have exactly 3 entries")
}

func TestGenerateProviderErrorAbortsImmediately(t *testing.T) {
	provider := &scriptedProvider{err: llm.NewProviderError("scripted", 503, fmt.Errorf("upstream down"))}
	p := NewPipeline(provider, nil, Config{MaxAttempts: 3}, nil, nil)

	_, err := p.Generate(context.Background(), lisbonRequest(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrProvider)
}

func TestGenerateRejectsOutOfBoundsRequest(t *testing.T) {
	provider := &scriptedProvider{}
	p := NewPipeline(provider, nil, Config{MaxAttempts: 3}, nil, nil)

	req := lisbonRequest()
	req.Days = 45
	_, err := p.Generate(context.Background(), req, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, provider.prompts, "no model call on invalid input")
}

func TestIntegratorReRejectsRequestedDestination(t *testing.T) {
	bad := validPlanFixture(3)
	bad.TopDestinations[1].Name = "Lisbon"
	provider := &scriptedProvider{responses: []string{
		skeletonFixture,
		mustMarshal(t, bad),
		mustMarshal(t, validPlanFixture(3)),
	}}
	p := NewPipeline(provider, nil, Config{MaxAttempts: 3}, nil, nil)

	resp, err := p.Generate(context.Background(), lisbonRequest(), "")
	require.NoError(t, err)
	for _, d := range resp.TopDestinations {
		assert.NotEqual(t, "Lisbon", d.Name)
	}
	require.Len(t, provider.prompts, 3)
	assert.Contains(t, provider.prompts[2], `exclude "Lisbon"`)
}

// failingEmbedder simulates an embedding endpoint that is down for every call.
type failingEmbedder struct {
	calls int
}

func (f *failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	f.calls++
	return nil, fmt.Errorf("embedding endpoint down")
}

func TestGenerateCompletesWhenEmbeddingAlwaysFails(t *testing.T) {
	embedder := &failingEmbedder{}
	assembler := retrieval.NewAssembler(
		retrieval.Config{Enabled: true, UseKB: true, UseMemory: true},
		embedder,
		nil, nil, nil, nil, nil, nil, nil,
	)

	provider := &scriptedProvider{responses: []string{
		skeletonFixture,
		mustMarshal(t, validPlanFixture(3)),
	}}
	p := NewPipeline(provider, assembler, Config{MaxAttempts: 3}, nil, nil)

	resp, err := p.Generate(context.Background(), lisbonRequest(), "3e0c8d9a-52f1-4f75-9f0e-6a4e9b2f7c11")
	require.NoError(t, err)
	assert.Len(t, resp.DailyPlan, 3)
	assert.Greater(t, embedder.calls, 0, "retrieval must have attempted the embedding")
	assert.NotContains(t, provider.prompts[0], "(source:")
}
