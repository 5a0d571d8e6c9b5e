package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/fitscore/internal/ai/gemini"
	"github.com/spigell/fitscore/internal/ranking"
)

const (
	app = "fitscore"
)

type Config struct {
	Scoring  *ScoringConfig      `mapstructure:"scoring"`
	Synonyms map[string][]string `mapstructure:"synonyms"`
	Ranking  *RankingConfig      `mapstructure:"ranking"`
	AI       *AIConfig           `mapstructure:"ai"`
}

type ScoringConfig struct {
	Weights          WeightsConfig    `mapstructure:"weights"`
	ProjectThreshold float64          `mapstructure:"project-threshold" validate:"gte=0,lte=1"`
	Vocabulary       VocabularyConfig `mapstructure:"vocabulary"`
}

// WeightsConfig selects the match weight table: a named profile or an explicit table, never both.
type WeightsConfig struct {
	Profile string             `mapstructure:"profile" validate:"omitempty,oneof=standard semantic"`
	Table   map[string]float64 `mapstructure:"table"`
}

type VocabularyConfig struct {
	Sections    map[string][]string `mapstructure:"sections"`
	ActionVerbs []string            `mapstructure:"action-verbs"`
}

type RankingConfig struct {
	ranking.Config  `mapstructure:",squash"`
	Workers         int      `mapstructure:"workers" validate:"gte=0"`
	DisabledFilters []string `mapstructure:"disabled-filters"`
}

type AIConfig struct {
	Enabled      bool                   `mapstructure:"enabled"`
	Provider     string                 `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	LearningPlan bool                   `mapstructure:"learning-plan"`
	Prompt       gemini.PromptOverrides `mapstructure:"prompt"`
	Gemini       *GeminiConfig          `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "fitscore scores parsed résumés against parsed job roles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	validate = validator.New()
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"ranking.workers":        "FITSCORE_WORKERS",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("scoring.project-threshold", 0.35)
	viper.SetDefault("ranking.duplicate-threshold", ranking.DefaultDuplicateThreshold)
	viper.SetDefault("ranking.shortlist-threshold", ranking.DefaultShortlistThreshold)
	viper.SetDefault("ai.provider", gemini.Provider)
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is fitscore.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Without an explicit --config the defaults are enough.
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Scoring == nil {
		config.Scoring = &ScoringConfig{}
	}
	if config.Ranking == nil {
		config.Ranking = &RankingConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	weights := config.Scoring.Weights
	if strings.TrimSpace(weights.Profile) != "" && len(weights.Table) > 0 {
		return errors.New("invalid config: scoring.weights.profile and scoring.weights.table are mutually exclusive")
	}

	if config.AI.Enabled && config.AI.Gemini == nil {
		return errors.New("invalid config: ai.gemini section is required when ai is enabled")
	}

	return nil
}
