package weather

import (
	"context"
	"strings"

	"ai-travelplanner-be/internal/pkg/logger"
)

// Chain tries the primary provider first and falls back to the secondary
// one. Every failure along the way degrades to an empty summary, so a
// Chain never returns an error to its caller.
type Chain struct {
	primary  Provider
	fallback Provider
	log      logger.ILogger
}

// NewChain builds a chain. primary may be nil, in which case only the
// fallback is consulted.
func NewChain(primary, fallback Provider, log logger.ILogger) *Chain {
	return &Chain{primary: primary, fallback: fallback, log: log}
}

func (c *Chain) Forecast(ctx context.Context, destination, startDate string, days int) (string, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", nil
	}

	if c.primary != nil {
		text, err := c.primary.Forecast(ctx, destination, startDate, days)
		if err != nil && c.log != nil {
			c.log.Warn("weather.chain", "primary weather provider failed, trying fallback", map[string]interface{}{
				"destination": destination,
				"error":       err.Error(),
			})
		}
		if err == nil && text != "" {
			return text, nil
		}
	}

	if c.fallback == nil {
		return "", nil
	}
	text, err := c.fallback.Forecast(ctx, destination, startDate, days)
	if err != nil {
		if c.log != nil {
			c.log.Warn("weather.chain", "fallback weather provider failed, continuing without weather context", map[string]interface{}{
				"destination": destination,
				"error":       err.Error(),
			})
		}
		return "", nil
	}
	return text, nil
}
