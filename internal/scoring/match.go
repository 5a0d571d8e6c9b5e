package scoring

import (
	"math"
	"strings"

	"github.com/spigell/fitscore/internal/profile"
)

// matchOrder fixes the order components are computed and explained in.
var matchOrder = []string{
	ComponentRequired,
	ComponentPreferred,
	ComponentExperience,
	ComponentProjects,
	ComponentSemantic,
}

// MatchScorer combines skill coverage, experience fit, project relevance and
// optionally semantic overlap into one 0-100 score. It is immutable after construction.
type MatchScorer struct {
	weights          Weights
	projectThreshold float64
}

// NewMatchScorer copies and normalizes weights. A nil table selects the standard one and a
// negative or NaN threshold selects DefaultProjectThreshold.
func NewMatchScorer(weights Weights, projectThreshold float64) *MatchScorer {
	if weights == nil {
		weights = StandardWeights()
	}
	if math.IsNaN(projectThreshold) || projectThreshold < 0 {
		projectThreshold = DefaultProjectThreshold
	}
	return &MatchScorer{
		weights:          weights.Normalized(),
		projectThreshold: projectThreshold,
	}
}

// Weights returns a copy of the normalized table in use.
func (s *MatchScorer) Weights() Weights {
	out := make(Weights, len(s.weights))
	for k, v := range s.weights {
		out[k] = v
	}
	return out
}

// Score evaluates candidate against role. Absent records are scored as empty ones.
func (s *MatchScorer) Score(candidate *profile.Candidate, role *profile.Role) Result {
	if candidate == nil {
		candidate = &profile.Candidate{}
	}
	if role == nil {
		role = &profile.Role{}
	}

	components := make(map[string]float64, len(s.weights))

	required, preferred := SkillCoverage(candidate.Skills, role.RequiredSkills, role.PreferredSkills)
	components[ComponentRequired] = required
	components[ComponentPreferred] = preferred

	if _, ok := s.weights[ComponentExperience]; ok {
		components[ComponentExperience] = ExperienceScore(candidate.ExperienceYears, role.IdealExperienceYears)
	}
	if _, ok := s.weights[ComponentProjects]; ok {
		components[ComponentProjects] = ProjectRelevance(candidate.Projects, role.Responsibilities, s.projectThreshold)
	}
	if _, ok := s.weights[ComponentSemantic]; ok {
		components[ComponentSemantic] = semanticOverlap(candidate.RawText, role.Responsibilities)
	}

	total := 0.0
	explanations := make([]string, 0, len(matchOrder))
	for _, name := range matchOrder {
		w, weighted := s.weights[name]
		if !weighted {
			delete(components, name)
			continue
		}
		v := clamp01(components[name])
		components[name] = v
		total += v * w
		explanations = append(explanations, explain(name, v))
	}

	return Result{
		Score:        round(clampScore(total*100), 2),
		Components:   components,
		Explanations: explanations,
		Method:       MethodDeterministic,
	}
}

// semanticOverlap compares the résumé text with the role responsibilities as one passage.
func semanticOverlap(rawText string, responsibilities []string) float64 {
	resps := nonBlankNormalized(responsibilities)
	if len(resps) == 0 {
		return 1
	}

	text := Normalize(rawText)
	if text == "" {
		return 0
	}

	return similarityNormalized(text, strings.Join(resps, " "))
}

// ComputeMatchScore returns the 0-100 match score for a weight table.
func ComputeMatchScore(candidate *profile.Candidate, role *profile.Role, weights Weights) float64 {
	return NewMatchScorer(weights, DefaultProjectThreshold).Score(candidate, role).Score
}
