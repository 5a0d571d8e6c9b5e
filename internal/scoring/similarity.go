package scoring

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Similarity measures character-level overlap of two strings after normalization:
// twice the size of the matched contiguous blocks over the combined length.
// Identical strings score 1.0 and strings sharing no characters score 0.0.
func Similarity(a, b string) float64 {
	return similarityNormalized(Normalize(a), Normalize(b))
}

func similarityNormalized(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	// The block matcher breaks ties by position, so operands are ordered to keep the ratio symmetric.
	if b < a {
		a, b = b, a
	}
	m := difflib.NewMatcher(runes(a), runes(b))
	return clamp01(m.Ratio())
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
