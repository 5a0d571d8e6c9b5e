package scoring

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/fitscore/internal/ai"
	"github.com/spigell/fitscore/internal/logger"
	"github.com/spigell/fitscore/internal/profile"
)

// ComponentExternalFit is the 0-1 score an external evaluator assigned.
const ComponentExternalFit = "external_fit"

// Scorer evaluates one candidate against one role.
type Scorer interface {
	Evaluate(ctx context.Context, candidate *profile.Candidate, role *profile.Role) (*Evaluation, error)
}

// DeterministicScorer is the pure heuristic strategy.
type DeterministicScorer struct {
	ats    *ATSScorer
	match  *MatchScorer
	logger *zap.Logger
}

// NewDeterministicScorer wires the ATS and match scorers. Nil scorers get defaults.
func NewDeterministicScorer(ats *ATSScorer, match *MatchScorer, log *zap.Logger) *DeterministicScorer {
	if ats == nil {
		ats = NewATSScorer(nil)
	}
	if match == nil {
		match = NewMatchScorer(nil, DefaultProjectThreshold)
	}
	return &DeterministicScorer{
		ats:    ats,
		match:  match,
		logger: logger.WithFields(log),
	}
}

// Evaluate validates the records and computes ATS score, match score and skill gap.
func (s *DeterministicScorer) Evaluate(ctx context.Context, candidate *profile.Candidate, role *profile.Role) (*Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if candidate == nil {
		candidate = &profile.Candidate{}
	}
	if role == nil {
		role = &profile.Role{}
	}

	if err := candidate.Validate(); err != nil {
		return nil, fmt.Errorf("candidate %s: %w", candidate.ID, err)
	}
	if err := role.Validate(); err != nil {
		return nil, fmt.Errorf("role %s: %w", role.ID, err)
	}

	eval := &Evaluation{
		CandidateID: candidate.ID,
		RoleID:      role.ID,
		ATS:         s.ats.Score(candidate.RawText, role.RequiredSkills, role.Synonyms),
		Match:       s.match.Score(candidate, role),
		SkillGap:    SkillGap(candidate.Skills, role.RequiredSkills),
	}

	s.logger.Debug("candidate evaluated",
		logger.ScoreFields(eval.CandidateID, eval.RoleID, eval.ATS.Score, eval.Match.Score, string(eval.Match.Method))...)

	return eval, nil
}

// ExternalDelegateScorer asks an external evaluator for the match score on top of the
// deterministic evaluation and falls back to it when the evaluator fails.
type ExternalDelegateScorer struct {
	base      Scorer
	evaluator ai.Evaluator
	logger    *zap.Logger
}

// NewExternalDelegateScorer wraps base with evaluator. A nil base uses a default
// DeterministicScorer.
func NewExternalDelegateScorer(base Scorer, evaluator ai.Evaluator, log *zap.Logger) *ExternalDelegateScorer {
	log = logger.WithFields(log)
	if base == nil {
		base = NewDeterministicScorer(nil, nil, log)
	}
	return &ExternalDelegateScorer{
		base:      base,
		evaluator: evaluator,
		logger:    log,
	}
}

// Evaluate runs the deterministic evaluation and replaces the match result with the
// external assessment when one is available.
func (s *ExternalDelegateScorer) Evaluate(ctx context.Context, candidate *profile.Candidate, role *profile.Role) (*Evaluation, error) {
	eval, err := s.base.Evaluate(ctx, candidate, role)
	if err != nil {
		return nil, err
	}

	if s.evaluator == nil {
		return eval, nil
	}

	assessment, err := s.evaluator.Evaluate(ctx, candidate, role)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.logger.Warn("external evaluation failed, keeping deterministic score",
			append(logger.SubjectFields(eval.CandidateID, eval.RoleID), zap.Error(err))...)
		return eval, nil
	}
	if assessment == nil {
		s.logger.Warn("external evaluator returned no assessment, keeping deterministic score",
			logger.SubjectFields(eval.CandidateID, eval.RoleID)...)
		return eval, nil
	}

	eval.Match = mergeAssessment(eval.Match, assessment)

	s.logger.Debug("candidate evaluated externally",
		logger.ScoreFields(eval.CandidateID, eval.RoleID, eval.ATS.Score, eval.Match.Score, string(eval.Match.Method))...)

	return eval, nil
}

func mergeAssessment(base Result, assessment *ai.Assessment) Result {
	score := clampScore(assessment.Score)

	components := make(map[string]float64, len(base.Components)+1)
	for k, v := range base.Components {
		components[k] = v
	}
	components[ComponentExternalFit] = clamp01(score / 100)

	explanations := make([]string, 0, len(base.Explanations)+len(assessment.Strengths)+len(assessment.Weaknesses)+1)
	explanations = append(explanations, base.Explanations...)
	if assessment.Summary != "" {
		explanations = append(explanations, assessment.Summary)
	}
	for _, st := range assessment.Strengths {
		explanations = append(explanations, "Strength: "+st)
	}
	for _, w := range assessment.Weaknesses {
		explanations = append(explanations, "Weakness: "+w)
	}

	return Result{
		Score:        round(score, 2),
		Components:   components,
		Explanations: explanations,
		Method:       MethodExternal,
	}
}
