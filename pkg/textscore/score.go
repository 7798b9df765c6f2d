// Package textscore provides pure text scoring used by the dual-rate memory:
// token-overlap similarity between two strings and a keyword/length-based
// importance score for a single string.
package textscore

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\w+`)

// ImportanceKeywords are the stance/necessity terms that mark a text as
// constraint-bearing. Each occurrence adds KeywordWeight to the score.
var ImportanceKeywords = []string{
	"must", "need", "require", "prefer", "goal", "constraint", "cannot", "never",
}

const (
	// KeywordWeight is added once per keyword present in the text.
	KeywordWeight = 2.0
	// LengthBonus is added when the text exceeds LengthThreshold tokens.
	LengthBonus = 1.0
	// LengthThreshold separates substantive turns from throwaway ones.
	LengthThreshold = 40
)

// Tokenize splits text into lowercase word tokens. Non-word characters act
// as delimiters.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// Similarity returns the Jaccard index of the two token sets in [0, 1].
// It is symmetric, returns 0 when either side has no tokens, and returns 1
// for identical inputs with at least one token.
func Similarity(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection

	return float64(intersection) / float64(union)
}

// Importance scores how much a text deserves to be folded into long-term
// memory. Keyword matches are case-insensitive substring checks, so "requires"
// counts for "require".
func Importance(text string) float64 {
	low := strings.ToLower(text)
	score := 0.0
	for _, kw := range ImportanceKeywords {
		if strings.Contains(low, kw) {
			score += KeywordWeight
		}
	}
	if len(Tokenize(text)) > LengthThreshold {
		score += LengthBonus
	}
	return score
}
