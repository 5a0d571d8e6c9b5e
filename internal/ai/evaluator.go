package ai

import (
	"context"

	"github.com/spigell/fitscore/internal/profile"
)

// Assessment is a fit judgement produced by an external model.
// Score is expressed on the 0-100 scale used by the match score.
type Assessment struct {
	Score      float64
	Summary    string
	Strengths  []string
	Weaknesses []string
	Raw        string
}

// Evaluator judges how well a candidate fits a role.
type Evaluator interface {
	Evaluate(ctx context.Context, candidate *profile.Candidate, role *profile.Role) (*Assessment, error)
}
