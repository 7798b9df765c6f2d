// Package dualrate maintains a two-tier compressed summary of an evolving
// text stream: a fast short-horizon layer that tracks recent input and a slow
// long-horizon layer that accumulates durable facts. Both are kept inside
// token budgets by an injected summarization backend; the compressor itself
// never interprets text, it only decides when and what to summarize.
package dualrate

import (
	"context"
	"strings"

	"ai-travelplanner-be/internal/pkg/logger"
	"ai-travelplanner-be/pkg/textscore"
	"ai-travelplanner-be/pkg/tokens"
)

// Summarizer compresses text to approximately maxTokens tokens. In production
// this is an LLM call instructed not to fabricate facts beyond its input.
type Summarizer func(ctx context.Context, text string, maxTokens int) (string, error)

// DefaultDivergenceThreshold is the minimum fast/slow similarity tolerated
// before the fast layer is resynchronized from the slow one.
const DefaultDivergenceThreshold = 0.15

// Config carries the compressor tunables.
type Config struct {
	// FastTokens bounds the fast summary.
	FastTokens int
	// SlowTokens bounds the slow summary.
	SlowTokens int
	// SlowEvery refreshes the slow layer every N turns. 0 disables the
	// periodic refresh entirely.
	SlowEvery int
	// SlowImportance is the importance score at which a single update forces
	// a slow refresh regardless of turn count.
	SlowImportance float64
	// RecentKeep bounds the verbatim most-recent-turns buffer.
	RecentKeep int
	// Divergence is the resynchronization threshold; zero means the default.
	Divergence float64
}

func DefaultConfig() Config {
	return Config{
		FastTokens:     250,
		SlowTokens:     300,
		SlowEvery:      4,
		SlowImportance: 3.0,
		RecentKeep:     1,
		Divergence:     DefaultDivergenceThreshold,
	}
}

// Memory is a standalone, persistable compressor unit. It is not safe for
// concurrent use; the caller decides its lifetime (per request, per session).
type Memory struct {
	cfg        Config
	summarizer Summarizer
	counter    tokens.Counter
	log        logger.ILogger

	fast   string
	slow   string
	recent []string
	turn   int
}

// New builds a Memory. counter and log are optional; counter is only used
// to report budget overruns, never to truncate.
func New(cfg Config, summarizer Summarizer, counter tokens.Counter, log logger.ILogger) *Memory {
	if cfg.Divergence <= 0 {
		cfg.Divergence = DefaultDivergenceThreshold
	}
	return &Memory{cfg: cfg, summarizer: summarizer, counter: counter, log: log}
}

// Fast returns the short-horizon summary.
func (m *Memory) Fast() string { return m.fast }

// Slow returns the long-horizon summary.
func (m *Memory) Slow() string { return m.slow }

// Turn returns the number of updates applied so far.
func (m *Memory) Turn() int { return m.turn }

// Update folds newText into both layers:
//  1. the fast summary is always recomputed from (fast + newText);
//  2. the slow summary refreshes on the periodic schedule or when the input
//     scores as important, consuming (slow + newText + fast);
//  3. if fast has drifted too far from a non-empty slow, fast is rebuilt from
//     (slow + fast) so it cannot silently diverge from long-term truth;
//  4. newText is appended to the recent-turns buffer, oldest dropped first.
func (m *Memory) Update(ctx context.Context, newText string) error {
	m.turn++

	fast, err := m.summarizer(ctx, m.fast+"\n"+newText, m.cfg.FastTokens)
	if err != nil {
		return err
	}
	m.fast = fast
	m.reportOverrun("fast", m.fast, m.cfg.FastTokens)

	doSlow := m.cfg.SlowEvery > 0 && m.turn%m.cfg.SlowEvery == 0
	if textscore.Importance(newText) >= m.cfg.SlowImportance {
		doSlow = true
	}
	if doSlow {
		slow, err := m.summarizer(ctx, m.slow+"\n"+newText+"\n"+m.fast, m.cfg.SlowTokens)
		if err != nil {
			return err
		}
		m.slow = slow
		m.reportOverrun("slow", m.slow, m.cfg.SlowTokens)
	}

	if m.slow != "" && textscore.Similarity(m.fast, m.slow) < m.cfg.Divergence {
		resynced, err := m.summarizer(ctx, m.slow+"\n"+m.fast, m.cfg.FastTokens)
		if err != nil {
			return err
		}
		m.fast = resynced
		if m.log != nil {
			m.log.Info("dualrate", "fast resynchronized from slow", map[string]interface{}{
				"turn": m.turn,
			})
		}
	}

	m.recent = append(m.recent, newText)
	for len(m.recent) > m.cfg.RecentKeep {
		m.recent = m.recent[1:]
	}

	return nil
}

// Context returns the prompt-ready concatenation of slow, fast and the
// recent-turns buffer, trimmed of surrounding whitespace.
func (m *Memory) Context() string {
	parts := append([]string{m.slow, m.fast}, m.recent...)
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func (m *Memory) reportOverrun(layer, text string, budget int) {
	if m.counter == nil || m.log == nil || budget <= 0 {
		return
	}
	if got := m.counter.Count(text); got > budget {
		m.log.Warn("dualrate", "summary over budget", map[string]interface{}{
			"turn":   m.turn,
			"layer":  layer,
			"tokens": got,
			"budget": budget,
		})
	}
}
