package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t\n ", want: ""},
		{name: "collapses and lowercases", input: "  Hello\t  World \n", want: "hello world"},
		{name: "compatibility forms", input: "ﬁle Ｇｏ", want: "file go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"built", "a", "c", "api", "v2_beta"}, Tokenize("Built a C++ API, v2_beta!"))
	assert.Empty(t, Tokenize(""))
	assert.NotNil(t, Tokenize("   "))
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical after normalization", a: "Design a Cache", b: " design   a cache ", want: 1},
		{name: "both empty", a: "", b: "", want: 1},
		{name: "one empty", a: "abc", b: "", want: 0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0},
		{name: "partial overlap", a: "abcd", b: "bcde", want: 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"kitten", "sitting"},
		{"built a redis cache layer", "design a cache for the api"},
		{"aaab", "abbb"},
	}

	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		assert.Equal(t, ab, ba, "similarity(%q, %q)", p[0], p[1])
		assert.True(t, ab > 0 && ab < 1, "expected partial similarity, got %v", ab)
	}
}

func TestDetectSections(t *testing.T) {
	t.Parallel()

	v := DefaultVocabulary()

	text := "Summary:\nBackend engineer\nWork Experience\nAcme Corp\nSKILLS: go, sql"
	assert.Equal(t, []string{"experience", "skills", "summary"}, v.DetectSections(text))

	assert.Empty(t, v.DetectSections("I have experience with skills in go"))
	assert.Empty(t, v.DetectSections(""))
}

func TestCustomVocabulary(t *testing.T) {
	t.Parallel()

	v, err := NewVocabulary(map[string][]string{"Awards": {"honors"}}, []string{"Shipped", " "})
	require.NoError(t, err)

	assert.Equal(t, []string{"awards"}, v.DetectSections("Honors:\nBest paper"))
	assert.Equal(t, []string{"awards"}, v.SectionNames())
	assert.Equal(t, 2, v.CountActionVerbs("shipped Shipped built"))

	_, err = NewVocabulary(map[string][]string{"  ": nil}, nil)
	require.Error(t, err)
}

func TestCountActionVerbs(t *testing.T) {
	t.Parallel()

	v := DefaultVocabulary()
	assert.Equal(t, 4, v.CountActionVerbs("Built and LED a team. Optimized costs; reduced latency."))
	assert.Equal(t, 0, v.CountActionVerbs(""))
}
