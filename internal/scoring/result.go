package scoring

import "math"

// Method names the strategy that produced a match score.
type Method string

const (
	MethodDeterministic Method = "deterministic"
	MethodExternal      Method = "external"
)

// Result is a score on the 0-100 scale with the 0-1 components it was built from.
type Result struct {
	Score        float64            `json:"score"`
	Components   map[string]float64 `json:"components"`
	Explanations []string           `json:"explanations,omitempty"`
	Method       Method             `json:"method,omitempty"`
}

// Evaluation is the full report for one candidate against one role.
type Evaluation struct {
	CandidateID string   `json:"candidate_id,omitempty"`
	RoleID      string   `json:"role_id,omitempty"`
	ATS         Result   `json:"ats"`
	Match       Result   `json:"match"`
	SkillGap    []string `json:"skill_gap"`
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func clampScore(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
