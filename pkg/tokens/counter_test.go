package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimatedCounterFourCharsPerToken(t *testing.T) {
	c := EstimatedCounter{}
	assert.Equal(t, 0, c.Count(""))
	assert.Equal(t, 1, c.Count("abcd"))
	assert.Equal(t, 25, c.Count(strings.Repeat("x", 100)))
}

func TestTiktokenCounterCountsProse(t *testing.T) {
	c, err := NewTiktokenCounter("gpt-4o-mini")
	if err != nil {
		t.Skipf("encoding data unavailable: %v", err)
	}

	text := "Three relaxed days in Lisbon, tiles and riverside dinners."
	got := c.Count(text)
	assert.Greater(t, got, 0)
	assert.Less(t, got, len(text), "token count must be below the character count")
}

func TestTiktokenCounterUnknownModelFallsBack(t *testing.T) {
	c, err := NewTiktokenCounter("no-such-model")
	if err != nil {
		t.Skipf("encoding data unavailable: %v", err)
	}
	assert.Greater(t, c.Count("hello world"), 0)
}

func TestDefaultNeverReturnsNil(t *testing.T) {
	c := Default("gpt-4o-mini")
	require.NotNil(t, c)
	assert.GreaterOrEqual(t, c.Count("hello world"), 1)
}
