// Package learning turns a skill gap into a short learning plan.
package learning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/fitscore/internal/logger"
	"github.com/spigell/fitscore/internal/schemas"
)

const (
	maxPriority     = 5
	weeksPerSkill   = 2
	minEstimateWeek = 2
)

// Plan is a prioritized learning path.
type Plan struct {
	Priority           []string            `json:"priority"`
	Resources          map[string][]string `json:"resources"`
	Projects           []string            `json:"projects"`
	EstimatedTimeWeeks int                 `json:"estimated_time_weeks"`
	Generated          bool                `json:"generated"`
}

// Generator produces a JSON reply to a system instruction and a message.
type Generator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// Planner builds plans, asking the generator first when one is configured and falling
// back to the curated table otherwise.
type Planner struct {
	resources *ResourceTable
	generator Generator
	logger    *zap.Logger
}

func NewPlanner(resources *ResourceTable, generator Generator, log *zap.Logger) *Planner {
	if resources == nil {
		resources = DefaultResources()
	}
	return &Planner{
		resources: resources,
		generator: generator,
		logger:    logger.WithFields(log),
	}
}

const systemPrompt = `You are an experienced career coach and curriculum designer.
Reply with JSON only, using exactly these keys:
{"priority": [...], "resources": {"skill": ["short title or link", ...]}, "projects": [...], "estimated_time_weeks": <int>}
Give 2-3 prioritized skills, 2 resources per skill (short title only), 2-3 small project suggestions, and a realistic estimated time in weeks.`

// Plan returns a learning plan for gaps. An empty gap yields an empty plan.
func (p *Planner) Plan(ctx context.Context, gaps, candidateSkills []string, targetRole string) (*Plan, error) {
	gaps = compact(gaps)
	if len(gaps) == 0 {
		return &Plan{Priority: []string{}, Resources: map[string][]string{}, Projects: []string{}}, nil
	}

	if p.generator == nil {
		return p.fallback(gaps), nil
	}

	plan, err := p.generate(ctx, gaps, candidateSkills, targetRole)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		p.logger.Warn("learning plan generation failed, using curated resources", zap.Error(err))
		return p.fallback(gaps), nil
	}

	return plan, nil
}

func (p *Planner) generate(ctx context.Context, gaps, candidateSkills []string, targetRole string) (*Plan, error) {
	input, err := json.MarshalIndent(map[string]any{
		"skill_gaps":       gaps,
		"candidate_skills": compact(candidateSkills),
		"target_role":      strings.TrimSpace(targetRole),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal planner input: %w", err)
	}

	raw, err := p.generator.GenerateContent(ctx, systemPrompt, "Input:\n"+string(input))
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(trimFence(raw)), &doc); err != nil {
		return nil, fmt.Errorf("parse learning plan: %w", err)
	}

	if err := schemas.Validate(schemas.LearningPlan, doc); err != nil {
		return nil, err
	}

	var plan Plan
	if err := json.Unmarshal([]byte(trimFence(raw)), &plan); err != nil {
		return nil, fmt.Errorf("decode learning plan: %w", err)
	}
	plan.Generated = true

	return &plan, nil
}

func (p *Planner) fallback(gaps []string) *Plan {
	priority := gaps
	if len(priority) > maxPriority {
		priority = priority[:maxPriority]
	}

	resources := make(map[string][]string, len(priority))
	for _, skill := range priority {
		resources[skill] = p.resources.Lookup(skill)
	}

	weeks := len(priority) * weeksPerSkill
	if weeks < minEstimateWeek {
		weeks = minEstimateWeek
	}

	return &Plan{
		Priority:           append([]string(nil), priority...),
		Resources:          resources,
		Projects:           []string{"Build a small project using " + priority[0]},
		EstimatedTimeWeeks: weeks,
	}
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func trimFence(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}
