package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/fitscore/internal/ai"
	"github.com/spigell/fitscore/internal/logger"
	"github.com/spigell/fitscore/internal/profile"
)

type stubEvaluator struct {
	assessment *ai.Assessment
	err        error
	calls      int
}

func (s *stubEvaluator) Evaluate(context.Context, *profile.Candidate, *profile.Role) (*ai.Assessment, error) {
	s.calls++
	return s.assessment, s.err
}

func TestDeterministicScorerEvaluate(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	scorer := NewDeterministicScorer(nil, nil, zap.New(core))

	eval, err := scorer.Evaluate(context.Background(), juniorCandidate(), backendRole())
	require.NoError(t, err)

	assert.Equal(t, "cand-1", eval.CandidateID)
	assert.Equal(t, "role-1", eval.RoleID)
	assert.Equal(t, 79.42, eval.Match.Score)
	assert.Equal(t, []string{"docker"}, eval.SkillGap)
	assert.Equal(t, MethodDeterministic, eval.ATS.Method)

	entries := observed.FilterMessage("candidate evaluated").All()
	require.Len(t, entries, 1)
	assert.Equal(t, 79.42, entries[0].ContextMap()[logger.FieldMatchScore])
}

func TestDeterministicScorerRejectsInvalidRecords(t *testing.T) {
	t.Parallel()

	scorer := NewDeterministicScorer(nil, nil, nil)

	_, err := scorer.Evaluate(context.Background(), &profile.Candidate{ExperienceYears: -3}, backendRole())
	var ve *profile.ValidationError
	require.ErrorAs(t, err, &ve)

	role := backendRole()
	role.IdealExperienceYears = -1
	_, err = scorer.Evaluate(context.Background(), juniorCandidate(), role)
	require.ErrorAs(t, err, &ve)
}

func TestDeterministicScorerNilRecords(t *testing.T) {
	t.Parallel()

	eval, err := NewDeterministicScorer(nil, nil, nil).Evaluate(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, eval.Match.Score)
	assert.Empty(t, eval.SkillGap)
}

func TestDeterministicScorerCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDeterministicScorer(nil, nil, nil).Evaluate(ctx, juniorCandidate(), backendRole())
	require.ErrorIs(t, err, context.Canceled)
}

func TestExternalDelegateScorerUsesAssessment(t *testing.T) {
	t.Parallel()

	stub := &stubEvaluator{assessment: &ai.Assessment{
		Score:      120,
		Summary:    "Strong backend profile.",
		Strengths:  []string{"Python"},
		Weaknesses: []string{"No container experience"},
	}}

	scorer := NewExternalDelegateScorer(nil, stub, nil)
	eval, err := scorer.Evaluate(context.Background(), juniorCandidate(), backendRole())
	require.NoError(t, err)

	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, MethodExternal, eval.Match.Method)
	assert.Equal(t, 100.0, eval.Match.Score)
	assert.Equal(t, 1.0, eval.Match.Components[ComponentExternalFit])
	assert.InDelta(t, 0.85, eval.Match.Components[ComponentExperience], 1e-9)
	assert.Contains(t, eval.Match.Explanations, "Strong backend profile.")
	assert.Contains(t, eval.Match.Explanations, "Strength: Python")
	assert.Contains(t, eval.Match.Explanations, "Weakness: No container experience")
	assert.Equal(t, MethodDeterministic, eval.ATS.Method)
	assert.Equal(t, []string{"docker"}, eval.SkillGap)
}

func TestExternalDelegateScorerFallsBack(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	stub := &stubEvaluator{err: errors.New("quota exceeded")}

	scorer := NewExternalDelegateScorer(NewDeterministicScorer(nil, nil, nil), stub, zap.New(core))
	eval, err := scorer.Evaluate(context.Background(), juniorCandidate(), backendRole())
	require.NoError(t, err)

	assert.Equal(t, MethodDeterministic, eval.Match.Method)
	assert.Equal(t, 79.42, eval.Match.Score)
	assert.NotContains(t, eval.Match.Components, ComponentExternalFit)

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "cand-1", entries[0].ContextMap()[logger.FieldCandidate])
}

func TestExternalDelegateScorerPropagatesCancellation(t *testing.T) {
	t.Parallel()

	stub := &stubEvaluator{err: context.Canceled}
	_, err := NewExternalDelegateScorer(nil, stub, nil).Evaluate(context.Background(), juniorCandidate(), backendRole())
	require.ErrorIs(t, err, context.Canceled)
}

func TestExternalDelegateScorerWithoutEvaluator(t *testing.T) {
	t.Parallel()

	eval, err := NewExternalDelegateScorer(nil, nil, nil).Evaluate(context.Background(), juniorCandidate(), backendRole())
	require.NoError(t, err)
	assert.Equal(t, MethodDeterministic, eval.Match.Method)
}
