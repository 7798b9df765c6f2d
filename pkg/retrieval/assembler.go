package retrieval

import (
	"context"
	"strings"

	"ai-travelplanner-be/internal/pkg/logger"
	"ai-travelplanner-be/pkg/dualrate"
	"ai-travelplanner-be/pkg/embedding"
	"ai-travelplanner-be/pkg/tokens"
	"ai-travelplanner-be/pkg/weather"
)

// KnowledgeSearcher exposes the shared knowledge base. Latest is the
// fallback when vector search yields nothing.
type KnowledgeSearcher interface {
	SearchSimilar(ctx context.Context, embedding []float32, topK int) ([]Chunk, error)
	Latest(ctx context.Context, topK int) ([]Chunk, error)
}

// MemorySearcher exposes per-user memory documents.
type MemorySearcher interface {
	SearchSimilarForUser(ctx context.Context, userID string, embedding []float32, topK int) ([]Chunk, error)
}

// Config carries the retrieval toggles from the application configuration.
type Config struct {
	Enabled    bool
	TopK       int
	UseKB      bool
	UseMemory  bool
	UseWeather bool

	DualRate       bool
	DualRateConfig dualrate.Config
}

// Query is the request-derived input to context assembly. UserID is empty
// for anonymous requests, which skips the memory channel.
type Query struct {
	UserID      string
	Origin      string
	Destination string
	StartDate   string
	Days        int
	BudgetText  string
	Preferences []string
	Constraints []string
}

// Text joins the query fields into the embedding input.
func (q Query) Text() string {
	parts := []string{
		q.Origin,
		q.Destination,
		q.BudgetText,
		strings.Join(q.Preferences, " "),
		strings.Join(q.Constraints, " "),
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Weather channel status values reported in Context.
const (
	WeatherDisabled  = "disabled"
	WeatherAvailable = "available"
	WeatherEmpty     = "empty"
	WeatherError     = "error"
)

// Context is the assembled prompt context. Empty strings are designed
// outcomes: a channel that is disabled, degraded, or has no data
// contributes nothing but never blocks planning.
type Context struct {
	Knowledge string
	Memory    string
	Weather   string

	KBHits        int
	MemoryHits    int
	WeatherStatus string
	Compressed    bool
}

// Empty reports whether no channel produced anything.
func (c Context) Empty() bool {
	return c.Knowledge == "" && c.Memory == "" && c.Weather == ""
}

// Assembler gathers and formats the retrieval channels. Any dependency may
// be nil, which disables the corresponding channel.
type Assembler struct {
	cfg        Config
	embedder   embedding.EmbeddingProvider
	kb         KnowledgeSearcher
	memories   MemorySearcher
	weather    weather.Provider
	summarizer dualrate.Summarizer
	counter    tokens.Counter
	log        logger.ILogger
	audit      logger.ILogger
}

func NewAssembler(
	cfg Config,
	embedder embedding.EmbeddingProvider,
	kb KnowledgeSearcher,
	memories MemorySearcher,
	weatherProvider weather.Provider,
	summarizer dualrate.Summarizer,
	counter tokens.Counter,
	log logger.ILogger,
	audit logger.ILogger,
) *Assembler {
	if cfg.TopK <= 0 {
		cfg.TopK = 4
	}
	return &Assembler{
		cfg:        cfg,
		embedder:   embedder,
		kb:         kb,
		memories:   memories,
		weather:    weatherProvider,
		summarizer: summarizer,
		counter:    counter,
		log:        log,
		audit:      audit,
	}
}

// Assemble fetches the enabled channels. The weather lookup runs
// concurrently with the two vector channels since it shares nothing with
// them. The returned Context is always usable, regardless of how many
// channels degraded.
func (a *Assembler) Assemble(ctx context.Context, q Query) Context {
	result := Context{WeatherStatus: WeatherDisabled}
	if !a.cfg.Enabled {
		a.auditLine("retrieval disabled", map[string]interface{}{
			"kb_hits": 0, "memory_hits": 0, "weather": WeatherDisabled,
		})
		return result
	}

	queryText := q.Text()

	weatherCh := make(chan string, 1)
	weatherWanted := a.cfg.UseWeather && a.weather != nil && q.Destination != ""
	if weatherWanted {
		go func() {
			text, err := a.weather.Forecast(ctx, q.Destination, q.StartDate, q.Days)
			if err != nil {
				a.warn("weather channel degraded", err)
				text = ""
			}
			weatherCh <- text
		}()
	}

	if queryText != "" {
		vector := a.embedQuery(ctx, queryText)
		if vector != nil {
			if a.cfg.UseKB && a.kb != nil {
				chunks := a.searchKnowledge(ctx, vector)
				result.Knowledge = FormatChunks(chunks)
				result.KBHits = len(chunks)
			}
			if a.cfg.UseMemory && a.memories != nil && q.UserID != "" {
				chunks, err := a.memories.SearchSimilarForUser(ctx, q.UserID, vector, a.cfg.TopK)
				if err != nil {
					a.warn("memory channel degraded", err)
					chunks = nil
				}
				result.Memory = FormatChunks(chunks)
				result.MemoryHits = len(chunks)
			}
		}
	}

	if weatherWanted {
		result.Weather = <-weatherCh
		result.WeatherStatus = WeatherEmpty
		if result.Weather != "" {
			result.WeatherStatus = WeatherAvailable
		}
	} else if a.cfg.UseWeather {
		result.WeatherStatus = WeatherEmpty
	}

	a.compress(ctx, &result)

	a.auditLine("retrieval assembled", map[string]interface{}{
		"kb_hits":     result.KBHits,
		"memory_hits": result.MemoryHits,
		"weather":     result.WeatherStatus,
		"compressed":  result.Compressed,
	})
	return result
}

func (a *Assembler) embedQuery(ctx context.Context, queryText string) []float32 {
	if a.embedder == nil || (!a.cfg.UseKB && !a.cfg.UseMemory) {
		return nil
	}
	vector, err := a.embedder.Embed(ctx, queryText)
	if err != nil {
		a.warn("query embedding degraded, skipping vector channels", err)
		return nil
	}
	return vector
}

func (a *Assembler) searchKnowledge(ctx context.Context, vector []float32) []Chunk {
	chunks, err := a.kb.SearchSimilar(ctx, vector, a.cfg.TopK)
	if err != nil {
		a.warn("knowledge channel degraded", err)
		return nil
	}
	if len(chunks) > 0 {
		return chunks
	}
	// Empty vector result falls back to the most recent documents.
	chunks, err = a.kb.Latest(ctx, a.cfg.TopK)
	if err != nil {
		a.warn("knowledge latest fallback degraded", err)
		return nil
	}
	return chunks
}

// compress folds the knowledge and memory blocks through the dual-rate
// compressor. Weather stays outside; it is already short and current.
func (a *Assembler) compress(ctx context.Context, result *Context) {
	if !a.cfg.DualRate || a.summarizer == nil {
		return
	}
	if result.Knowledge == "" && result.Memory == "" {
		return
	}

	var sections []string
	for _, s := range []string{result.Knowledge, result.Memory} {
		if s != "" {
			sections = append(sections, s)
		}
	}
	merged := strings.Join(sections, "\n\n")

	memory := dualrate.New(a.cfg.DualRateConfig, a.summarizer, a.counter, a.log)
	if err := memory.Update(ctx, merged); err != nil {
		a.warn("dual-rate compression degraded, using raw context", err)
		return
	}

	compressed := memory.Context()
	a.auditLine("dual-rate compression", map[string]interface{}{
		"chars_in":  len(merged),
		"chars_out": len(compressed),
	})
	result.Knowledge = ""
	result.Memory = compressed
	result.Compressed = true
}

func (a *Assembler) warn(message string, err error) {
	if a.log == nil {
		return
	}
	a.log.Warn("retrieval", message, map[string]interface{}{"error": err.Error()})
}

func (a *Assembler) auditLine(message string, details map[string]interface{}) {
	if a.audit == nil {
		return
	}
	a.audit.Info("retrieval", message, details)
}
