package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/fitscore/internal/ai/gemini"
	"github.com/spigell/fitscore/internal/learning"
	"github.com/spigell/fitscore/internal/logger"
	"github.com/spigell/fitscore/internal/profile"
	"github.com/spigell/fitscore/internal/scoring"
	"github.com/spigell/fitscore/internal/secrets"
)

// engine bundles everything a command needs to evaluate candidates.
type engine struct {
	config  *Config
	logger  *zap.Logger
	scorer  scoring.Scorer
	planner *learning.Planner
}

// setup reads the config, builds the logger and wires the scorer for a command.
func setup(cmd *cobra.Command) (*engine, error) {
	config, err := getConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return newEngine(cmd.Context(), config, log)
}

func newEngine(ctx context.Context, config *Config, log *zap.Logger) (*engine, error) {
	weights, err := newWeights(config.Scoring.Weights)
	if err != nil {
		return nil, err
	}

	vocabulary, err := newVocabulary(config.Scoring.Vocabulary)
	if err != nil {
		return nil, err
	}

	var scorer scoring.Scorer = scoring.NewDeterministicScorer(
		scoring.NewATSScorer(vocabulary),
		scoring.NewMatchScorer(weights, config.Scoring.ProjectThreshold),
		log,
	)

	var generator learning.Generator
	if config.AI.Enabled {
		g, err := newGenerator(ctx, config.AI, log)
		if err != nil {
			log.Warn("skipping external evaluation", zap.Error(err))
		} else {
			evaluator := gemini.NewEvaluator(g, config.AI.Gemini.MaxLogLength, log)
			evaluator.SetPromptOverrides(config.AI.Prompt)
			scorer = scoring.NewExternalDelegateScorer(scorer, evaluator, log)
			if config.AI.LearningPlan {
				generator = g
			}
		}
	}

	return &engine{
		config:  config,
		logger:  log,
		scorer:  scorer,
		planner: learning.NewPlanner(learning.DefaultResources(), generator, log),
	}, nil
}

func newGenerator(ctx context.Context, config *AIConfig, log *zap.Logger) (*gemini.Generator, error) {
	if config.Provider != "" && config.Provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider %q", config.Provider)
	}
	if config.Gemini == nil {
		return nil, fmt.Errorf("ai provider %s is not configured", gemini.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  config.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	return gemini.NewGenerator(ctx, apiKey, config.Gemini.Model, config.Gemini.MaxRetries, log)
}

// newWeights resolves the single match weight table for this run.
func newWeights(config WeightsConfig) (scoring.Weights, error) {
	if len(config.Table) == 0 {
		return scoring.WeightsForProfile(config.Profile)
	}

	weights := scoring.Weights(config.Table)
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return weights, nil
}

func newVocabulary(config VocabularyConfig) (*scoring.Vocabulary, error) {
	if len(config.Sections) == 0 && len(config.ActionVerbs) == 0 {
		return scoring.DefaultVocabulary(), nil
	}

	sections := config.Sections
	if len(sections) == 0 {
		sections = scoring.DefaultSections()
	}
	verbs := config.ActionVerbs
	if len(verbs) == 0 {
		verbs = scoring.DefaultActionVerbs()
	}

	return scoring.NewVocabulary(sections, verbs)
}

// withSynonyms returns a copy of role whose synonym table also carries the configured ones.
// Synonyms stated by the role come first.
func withSynonyms(role *profile.Role, global map[string][]string) *profile.Role {
	if len(global) == 0 {
		return role
	}

	merged := make(map[string][]string, len(global)+len(role.Synonyms))
	for skill, alternatives := range role.Synonyms {
		merged[skill] = append([]string(nil), alternatives...)
	}
	for skill, alternatives := range global {
		key := scoring.Normalize(skill)
		merged[key] = append(merged[key], alternatives...)
	}

	copied := *role
	copied.Synonyms = merged
	return &copied
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
