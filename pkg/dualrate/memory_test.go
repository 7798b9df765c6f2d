package dualrate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"ai-travelplanner-be/pkg/textscore"
	"ai-travelplanner-be/pkg/tokens"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughSummarizer deduplicates lines instead of calling a model, which
// keeps behavior deterministic while preserving token overlap with the input.
func passthroughSummarizer(_ context.Context, text string, _ int) (string, error) {
	seen := make(map[string]struct{})
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n"), nil
}

func newTestMemory(cfg Config) *Memory {
	return New(cfg, passthroughSummarizer, nil, nil)
}

func TestSlowRefreshesOnlyPeriodically(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SlowEvery = 4
	cfg.SlowImportance = 100 // never triggered by content
	m := newTestMemory(cfg)

	ctx := context.Background()
	var slowChanges []int
	prevSlow := m.Slow()
	for turn := 1; turn <= 12; turn++ {
		// Low-importance filler, unique per turn.
		require.NoError(t, m.Update(ctx, fmt.Sprintf("day %d walking tour", turn)))
		if m.Slow() != prevSlow {
			slowChanges = append(slowChanges, turn)
			prevSlow = m.Slow()
		}
	}

	assert.Equal(t, []int{4, 8, 12}, slowChanges)
}

func TestImportanceOverridesPeriodicity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SlowEvery = 100 // periodic refresh effectively off
	cfg.SlowImportance = 3.0
	m := newTestMemory(cfg)

	ctx := context.Background()
	require.NoError(t, m.Update(ctx, "a quiet afternoon"))
	assert.Empty(t, m.Slow(), "unimportant input must not refresh slow")

	// Two keywords score 4.0 >= 3.0.
	require.NoError(t, m.Update(ctx, "we must avoid stairs and cannot walk far"))
	assert.NotEmpty(t, m.Slow(), "important input must refresh slow regardless of turn count")
}

// Scripted summaries put fast and slow on disjoint vocabularies so the
// similarity check must trigger a rebuild of fast from the slow layer.
func TestDivergenceResynchronizesFast(t *testing.T) {
	outputs := []string{
		"apple banana",                     // fast layer
		"cherry date elderberry fig grape", // slow layer, zero overlap with fast
		"cherry date",                      // resynchronized fast
	}
	var inputs []string
	scripted := func(_ context.Context, text string, _ int) (string, error) {
		inputs = append(inputs, text)
		require.Less(t, len(inputs), len(outputs)+1, "unexpected extra summarizer call")
		return outputs[len(inputs)-1], nil
	}

	cfg := DefaultConfig()
	cfg.SlowEvery = 1
	m := New(cfg, scripted, nil, nil)

	require.NoError(t, m.Update(context.Background(), "plan a trip"))
	require.Len(t, inputs, 3)
	assert.Equal(t, "cherry date elderberry fig grape apple banana", strings.Join(strings.Fields(inputs[2]), " "))
	assert.Equal(t, "cherry date", m.Fast())
	assert.GreaterOrEqual(t, textscore.Similarity(m.Fast(), m.Slow()), cfg.Divergence)
}

func TestRecentBufferTrimsOldestFirst(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RecentKeep = 2
	// Constant summaries keep fast/slow free of the raw turn text, so the
	// buffer is the only way a turn can reach Context().
	constant := func(context.Context, string, int) (string, error) {
		return "summary", nil
	}
	m := New(cfg, constant, nil, nil)

	ctx := context.Background()
	require.NoError(t, m.Update(ctx, "first"))
	require.NoError(t, m.Update(ctx, "second"))
	require.NoError(t, m.Update(ctx, "third"))

	got := m.Context()
	assert.NotContains(t, got, "first")
	assert.Contains(t, got, "second")
	assert.Contains(t, got, "third")
}

func TestContextIsTrimmed(t *testing.T) {
	m := newTestMemory(DefaultConfig())
	assert.Equal(t, "", m.Context(), "empty memory yields empty context")

	require.NoError(t, m.Update(context.Background(), "visit the castle"))
	ctxText := m.Context()
	assert.Equal(t, strings.TrimSpace(ctxText), ctxText)
	assert.Contains(t, ctxText, "visit the castle")
}

func TestSummarizerErrorPropagates(t *testing.T) {
	boom := fmt.Errorf("backend down")
	m := New(DefaultConfig(), func(context.Context, string, int) (string, error) {
		return "", boom
	}, nil, nil)

	err := m.Update(context.Background(), "anything")
	assert.ErrorIs(t, err, boom)
}

// recordingLogger captures structured log entries for assertions.
type recordingLogger struct {
	entries []recordedEntry
}

type recordedEntry struct {
	level   string
	module  string
	message string
	details map[string]interface{}
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.entries = append(l.entries, recordedEntry{"debug", module, message, details})
}

func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.entries = append(l.entries, recordedEntry{"info", module, message, details})
}

func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.entries = append(l.entries, recordedEntry{"warn", module, message, details})
}

func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.entries = append(l.entries, recordedEntry{"error", module, message, details})
}

func (l *recordingLogger) Sync() error {
	return nil
}

func TestResynchronizationIsLogged(t *testing.T) {
	outputs := []string{
		"apple banana",
		"cherry date elderberry fig grape",
		"cherry date",
	}
	calls := 0
	scripted := func(context.Context, string, int) (string, error) {
		calls++
		return outputs[calls-1], nil
	}

	cfg := DefaultConfig()
	cfg.SlowEvery = 1
	rec := &recordingLogger{}
	m := New(cfg, scripted, nil, rec)

	require.NoError(t, m.Update(context.Background(), "plan a trip"))

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "info", rec.entries[0].level)
	assert.Equal(t, "dualrate", rec.entries[0].module)
	assert.Equal(t, "fast resynchronized from slow", rec.entries[0].message)
	assert.Equal(t, 1, rec.entries[0].details["turn"])
}

func TestBudgetOverrunIsReported(t *testing.T) {
	long := strings.Repeat("lisbon riverside dinner ", 40)
	constant := func(context.Context, string, int) (string, error) {
		return long, nil
	}

	cfg := DefaultConfig()
	cfg.FastTokens = 5
	cfg.SlowEvery = 0
	rec := &recordingLogger{}
	m := New(cfg, constant, tokens.EstimatedCounter{}, rec)

	require.NoError(t, m.Update(context.Background(), "first day"))

	var warned bool
	for _, e := range rec.entries {
		if e.level == "warn" && e.message == "summary over budget" {
			warned = true
			assert.Equal(t, "fast", e.details["layer"])
			assert.Equal(t, 5, e.details["budget"])
		}
	}
	assert.True(t, warned, "overrun on the fast layer must be reported")
}
