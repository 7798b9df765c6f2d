// Package weather resolves short, prompt-ready forecast summaries for a
// travel destination. Concrete providers report failures as errors; the
// Chain converts every failure into a degraded empty result so a missing
// forecast can never fail plan generation.
package weather

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Provider resolves a forecast summary covering days starting at startDate.
// An empty string with a nil error means the destination produced no data.
type Provider interface {
	Forecast(ctx context.Context, destination, startDate string, days int) (string, error)
}

// NormalizeDate accepts YYYY-MM-DD or YYYY/MM/DD with or without zero
// padding and returns a canonical ISO date. Anything else resolves to
// today, which keeps forecast lookups on the nearest available window.
func NormalizeDate(value string, now time.Time) string {
	today := now.Format("2006-01-02")
	value = strings.TrimSpace(value)
	if value == "" {
		return today
	}
	parts := strings.Split(strings.ReplaceAll(value, "/", "-"), "-")
	if len(parts) != 3 {
		return today
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return today
		}
		nums[i] = n
	}
	return fmt.Sprintf("%04d-%02d-%02d", nums[0], nums[1], nums[2])
}
