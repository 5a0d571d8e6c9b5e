package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spigell/fitscore/internal/profile"
)

// Match component names.
const (
	ComponentRequired   = "required"
	ComponentPreferred  = "preferred"
	ComponentExperience = "experience"
	ComponentProjects   = "projects"
	ComponentSemantic   = "semantic"
)

// Weight profiles.
const (
	ProfileStandard = "standard"
	ProfileSemantic = "semantic"
)

var knownComponents = map[string]struct{}{
	ComponentRequired:   {},
	ComponentPreferred:  {},
	ComponentExperience: {},
	ComponentProjects:   {},
	ComponentSemantic:   {},
}

// Weights maps a match component to its relative importance.
type Weights map[string]float64

// StandardWeights is the skill-centric table.
func StandardWeights() Weights {
	return Weights{
		ComponentRequired:   0.55,
		ComponentPreferred:  0.15,
		ComponentExperience: 0.15,
		ComponentProjects:   0.15,
	}
}

// SemanticWeights is the table for roles that come with responsibilities and résumé text.
func SemanticWeights() Weights {
	return Weights{
		ComponentRequired:   0.35,
		ComponentPreferred:  0.15,
		ComponentSemantic:   0.15,
		ComponentProjects:   0.20,
		ComponentExperience: 0.15,
	}
}

// WeightsForProfile returns the preset table named by profile.
func WeightsForProfile(name string) (Weights, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProfileStandard:
		return StandardWeights(), nil
	case ProfileSemantic:
		return SemanticWeights(), nil
	}
	return nil, &profile.ValidationError{
		Field:   "weights.profile",
		Message: fmt.Sprintf("unknown profile %q (want %s or %s)", name, ProfileStandard, ProfileSemantic),
	}
}

// Validate reports unknown components and weights that are negative or not finite.
// Scoring tolerates such tables; Validate exists for configuration checks.
func (w Weights) Validate() error {
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	positive := false
	for _, k := range keys {
		v := w[k]
		if _, ok := knownComponents[k]; !ok {
			return &profile.ValidationError{Field: "weights." + k, Message: "unknown component"}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return &profile.ValidationError{Field: "weights." + k, Message: fmt.Sprintf("invalid weight %v", v)}
		}
		if v > 0 {
			positive = true
		}
	}

	if !positive {
		return &profile.ValidationError{Field: "weights", Message: "at least one weight must be positive"}
	}

	return nil
}

// Normalized returns a copy summing to 1. Unknown components and weights that are
// negative or not finite are dropped. An empty result falls back to the standard table.
func (w Weights) Normalized() Weights {
	total := 0.0
	kept := make(Weights, len(w))
	for k, v := range w {
		if _, ok := knownComponents[k]; !ok {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			continue
		}
		kept[k] = v
		total += v
	}

	if total <= 0 {
		return StandardWeights().Normalized()
	}

	for k, v := range kept {
		kept[k] = v / total
	}

	return kept
}
