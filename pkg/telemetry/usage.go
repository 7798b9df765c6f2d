// Package telemetry collects per-request token usage from LLM calls.
//
// A sink is created per incoming request and handed explicitly to every
// provider call made on behalf of that request. There is no process-wide
// collector.
package telemetry

import "sync"

// UsageSink accumulates total-token counts reported by the provider.
// Safe for concurrent use: budget and risk stages record from separate
// goroutines.
type UsageSink struct {
	mu     sync.Mutex
	totals []int
}

func NewUsageSink() *UsageSink {
	return &UsageSink{}
}

// Record appends one call's total token count. Nil sinks are accepted so
// call sites never have to branch on whether auditing is enabled.
func (s *UsageSink) Record(totalTokens int) {
	if s == nil || totalTokens <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals = append(s.totals, totalTokens)
}

// Summary reports the number of calls, the summed token count and the mean
// per call. Zero values when nothing was recorded.
func (s *UsageSink) Summary() (calls int, total int, avg float64) {
	if s == nil {
		return 0, 0, 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	calls = len(s.totals)
	for _, t := range s.totals {
		total += t
	}
	if calls > 0 {
		avg = float64(total) / float64(calls)
	}
	return calls, total, avg
}
