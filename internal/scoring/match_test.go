package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/fitscore/internal/profile"
)

func juniorCandidate() *profile.Candidate {
	return &profile.Candidate{
		ID:              "cand-1",
		Skills:          []string{"python", "sql"},
		ExperienceYears: 2,
	}
}

func backendRole() *profile.Role {
	return &profile.Role{
		ID:                   "role-1",
		RequiredSkills:       []string{"python", "sql", "docker"},
		IdealExperienceYears: 3,
	}
}

func TestMatchScoreEndToEnd(t *testing.T) {
	t.Parallel()

	res := NewMatchScorer(StandardWeights(), DefaultProjectThreshold).Score(juniorCandidate(), backendRole())

	assert.Equal(t, 79.42, res.Score)
	assert.Equal(t, MethodDeterministic, res.Method)
	assert.InDelta(t, 2.0/3.0, res.Components[ComponentRequired], 1e-9)
	assert.InDelta(t, 1.0, res.Components[ComponentPreferred], 1e-9)
	assert.InDelta(t, 0.85, res.Components[ComponentExperience], 1e-9)
	assert.InDelta(t, 1.0, res.Components[ComponentProjects], 1e-9)
	assert.NotContains(t, res.Components, ComponentSemantic)

	require.Len(t, res.Explanations, 4)
	assert.Equal(t, "Has most of the core required skills.", res.Explanations[0])
	assert.Equal(t, "Also has several preferred skills (plus).", res.Explanations[1])
}

func TestComputeMatchScoreEmptyInputs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100.0, ComputeMatchScore(nil, nil, nil))
	assert.Equal(t, 100.0, ComputeMatchScore(&profile.Candidate{}, &profile.Role{}, SemanticWeights()))
}

func TestComputeMatchScoreMalformedWeights(t *testing.T) {
	t.Parallel()

	weights := Weights{
		ComponentRequired:  -5,
		ComponentPreferred: math.Inf(1),
		ComponentProjects:  math.NaN(),
		"culture":          3,
	}

	got := ComputeMatchScore(juniorCandidate(), backendRole(), weights)
	assert.Equal(t, 79.42, got)
}

func TestComputeMatchScoreSubsetWeights(t *testing.T) {
	t.Parallel()

	got := ComputeMatchScore(juniorCandidate(), backendRole(), Weights{ComponentRequired: 2})
	assert.Equal(t, 66.67, got)

	got = ComputeMatchScore(juniorCandidate(), backendRole(), Weights{ComponentExperience: 1, ComponentPreferred: 1})
	assert.Equal(t, 92.5, got)
}

func TestMatchScoreSemanticProfile(t *testing.T) {
	t.Parallel()

	scorer := NewMatchScorer(SemanticWeights(), DefaultProjectThreshold)
	res := scorer.Score(juniorCandidate(), backendRole())

	assert.Equal(t, 86.08, res.Score)
	assert.InDelta(t, 1.0, res.Components[ComponentSemantic], 1e-9)
	assert.Len(t, res.Explanations, 5)

	role := backendRole()
	role.Responsibilities = []string{"Maintain the deployment pipeline"}
	res = scorer.Score(juniorCandidate(), role)

	assert.Equal(t, 0.0, res.Components[ComponentSemantic])
	assert.Equal(t, 0.0, res.Components[ComponentProjects])
	assert.Contains(t, res.Explanations, "Résumé wording shares little with the role description.")
}

func TestMatchScorerProjectThreshold(t *testing.T) {
	t.Parallel()

	candidate := &profile.Candidate{Projects: []string{"a"}}
	role := &profile.Role{Responsibilities: []string{"design a cache"}}

	tests := []struct {
		name      string
		threshold float64
		want      float64
	}{
		{name: "zero keeps every match", threshold: 0, want: 0.133},
		{name: "default drops weak match", threshold: DefaultProjectThreshold, want: 0},
		{name: "negative falls back to default", threshold: -1, want: 0},
		{name: "nan falls back to default", threshold: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := NewMatchScorer(StandardWeights(), tt.threshold).Score(candidate, role)
			assert.InDelta(t, tt.want, res.Components[ComponentProjects], 1e-9)
		})
	}
}

func TestMatchScoreBounded(t *testing.T) {
	t.Parallel()

	candidate := &profile.Candidate{
		Skills:          []string{"Go", "go", "Kubernetes"},
		Projects:        []string{"Built a kubernetes operator", " "},
		ExperienceYears: 40,
		RawText:         "Built a kubernetes operator in Go",
	}
	role := &profile.Role{
		RequiredSkills:       []string{"go", "kubernetes"},
		PreferredSkills:      []string{"terraform"},
		Responsibilities:     []string{"Operate kubernetes clusters", "Write Go services"},
		IdealExperienceYears: 2,
	}

	for _, w := range []Weights{StandardWeights(), SemanticWeights()} {
		res := NewMatchScorer(w, DefaultProjectThreshold).Score(candidate, role)
		assert.GreaterOrEqual(t, res.Score, 0.0)
		assert.LessOrEqual(t, res.Score, 100.0)
		for name, v := range res.Components {
			assert.False(t, math.IsNaN(v), name)
			assert.GreaterOrEqual(t, v, 0.0, name)
			assert.LessOrEqual(t, v, 1.0, name)
		}
		assert.InDelta(t, 0.5, res.Components[ComponentExperience], 1e-9)
	}
}

func TestWeightsNormalized(t *testing.T) {
	t.Parallel()

	got := Weights{ComponentRequired: 2, ComponentPreferred: 2, "bogus": 5, ComponentExperience: -1}.Normalized()
	assert.Equal(t, Weights{ComponentRequired: 0.5, ComponentPreferred: 0.5}, got)

	fallback := Weights{ComponentRequired: 0}.Normalized()
	assert.InDelta(t, 0.55, fallback[ComponentRequired], 1e-9)

	sum := 0.0
	for _, v := range SemanticWeights().Normalized() {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestWeightsValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, StandardWeights().Validate())
	require.NoError(t, SemanticWeights().Validate())

	var ve *profile.ValidationError
	require.ErrorAs(t, Weights{"culture": 1}.Validate(), &ve)
	assert.Equal(t, "weights.culture", ve.Field)

	require.ErrorAs(t, Weights{ComponentRequired: -1}.Validate(), &ve)
	require.ErrorAs(t, Weights{ComponentRequired: 0}.Validate(), &ve)
	require.ErrorAs(t, Weights{}.Validate(), &ve)
}

func TestWeightsForProfile(t *testing.T) {
	t.Parallel()

	w, err := WeightsForProfile(" Semantic ")
	require.NoError(t, err)
	assert.Equal(t, SemanticWeights(), w)

	w, err = WeightsForProfile("")
	require.NoError(t, err)
	assert.Equal(t, StandardWeights(), w)

	_, err = WeightsForProfile("llm")
	require.Error(t, err)
}
