package textscore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{
			name: "identical non-empty strings",
			a:    "three days in Lisbon with kids",
			b:    "three days in Lisbon with kids",
			want: 1.0,
		},
		{
			name: "empty right side",
			a:    "anything at all",
			b:    "",
			want: 0.0,
		},
		{
			name: "empty left side",
			a:    "",
			b:    "anything at all",
			want: 0.0,
		},
		{
			name: "both empty",
			a:    "",
			b:    "",
			want: 0.0,
		},
		{
			name: "punctuation only is empty",
			a:    "!!! ...",
			b:    "words here",
			want: 0.0,
		},
		{
			name: "disjoint token sets",
			a:    "alpha beta",
			b:    "gamma delta",
			want: 0.0,
		},
		{
			name: "half overlap",
			a:    "beach food",
			b:    "beach museum",
			want: 1.0 / 3.0,
		},
		{
			name: "case and punctuation insensitive",
			a:    "Beach, Food!",
			b:    "beach food",
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a := "slow pace, museums, local food"
	b := "fast pace, beaches, local food"
	assert.Equal(t, Similarity(a, b), Similarity(b, a))
}

func TestImportanceKeywords(t *testing.T) {
	assert.Equal(t, 0.0, Importance("a short relaxed note"))
	assert.Equal(t, 2.0, Importance("we must see the castle"))
	assert.Equal(t, 4.0, Importance("we must see the castle and I prefer trains"))
	// Substring match: "requires" counts for "require".
	assert.Equal(t, 2.0, Importance("this trip requires a visa"))
}

// Importance never decreases as more distinct keywords appear.
func TestImportanceMonotonic(t *testing.T) {
	text := "a plain sentence"
	prev := Importance(text)
	for _, kw := range ImportanceKeywords {
		text += " " + kw
		cur := Importance(text)
		assert.GreaterOrEqual(t, cur, prev, "adding %q lowered the score", kw)
		prev = cur
	}
}

func TestImportanceLengthBonus(t *testing.T) {
	long := strings.Repeat("word ", LengthThreshold+1)
	assert.Equal(t, LengthBonus, Importance(long))

	short := strings.Repeat("word ", LengthThreshold)
	assert.Equal(t, 0.0, Importance(short))
}
