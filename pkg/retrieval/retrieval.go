// Package retrieval assembles the prompt context for plan generation from
// up to three channels: the shared knowledge base, the requesting user's
// memory documents, and a live weather summary. Every channel is
// best-effort; a failing channel yields an explicit empty result and never
// fails the request.
package retrieval

import (
	"fmt"
	"strings"
)

// Chunk is one retrieved document, already reduced to the fields the
// prompt needs.
type Chunk struct {
	ID      string
	Title   string
	Source  string
	Content string
}

// maxChunkContentChars bounds how much of each document body reaches the
// prompt.
const maxChunkContentChars = 1200

// FormatChunks renders chunks as a numbered context block:
//
//	[1] title (source: source)
//	first 1200 characters of content
func FormatChunks(chunks []Chunk) string {
	if len(chunks) == 0 {
		return ""
	}
	lines := make([]string, 0, len(chunks)*2)
	for i, chunk := range chunks {
		title := chunk.Title
		if title == "" {
			title = "Untitled"
		}
		source := chunk.Source
		if source == "" {
			source = "unknown"
		}
		lines = append(lines, fmt.Sprintf("[%d] %s (source: %s)", i+1, title, source))
		lines = append(lines, truncateRunes(strings.TrimSpace(chunk.Content), maxChunkContentChars))
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
