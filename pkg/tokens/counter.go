// Package tokens estimates token counts for prompt-budget bookkeeping.
package tokens

import (
	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens in a piece of text.
type Counter interface {
	Count(text string) int
}

// TiktokenCounter counts with the real BPE encoding of the configured model.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter resolves the encoding for model, falling back to
// cl100k_base when the model is unknown.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

func (c *TiktokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// EstimatedCounter is the offline fallback: roughly four characters per token,
// which is a reasonable figure for English prose.
type EstimatedCounter struct{}

func (EstimatedCounter) Count(text string) int {
	return len(text) / 4
}

// Default returns a tiktoken-backed counter for the model, or the character
// estimate when the encoding data is unavailable.
func Default(model string) Counter {
	counter, err := NewTiktokenCounter(model)
	if err != nil {
		return EstimatedCounter{}
	}
	return counter
}

var (
	_ Counter = (*TiktokenCounter)(nil)
	_ Counter = EstimatedCounter{}
)
