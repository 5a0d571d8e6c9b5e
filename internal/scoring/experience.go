package scoring

import "math"

const (
	deficitPenalty   = 0.15
	maxDeficit       = 5.0
	surplusPenalty   = 0.05
	surplusFloor     = 0.6
	maxSurplus       = 10.0
	overqualifiedFit = 0.5
)

// ExperienceScore rates how close the candidate's years are to the role's ideal.
// Shortfalls cost 0.15 per year and zero out beyond five years. Surpluses cost 0.05 per
// year, never below 0.6, and drop to 0.5 beyond ten years. A role without an ideal scores 1.
func ExperienceScore(candidateYears, idealYears float64) float64 {
	if math.IsNaN(idealYears) || idealYears <= 0 {
		return 1
	}
	if math.IsNaN(candidateYears) || candidateYears < 0 {
		candidateYears = 0
	}

	switch {
	case candidateYears < idealYears:
		deficit := idealYears - candidateYears
		if deficit > maxDeficit {
			return 0
		}
		return math.Max(0, 1-deficitPenalty*deficit)
	case candidateYears > idealYears:
		surplus := candidateYears - idealYears
		if surplus > maxSurplus {
			return overqualifiedFit
		}
		return math.Max(surplusFloor, 1-surplusPenalty*surplus)
	}

	return 1
}
