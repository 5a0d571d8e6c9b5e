package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/fitscore/internal/learning"
	"github.com/spigell/fitscore/internal/profile"
	"github.com/spigell/fitscore/internal/ranking"
	"github.com/spigell/fitscore/internal/scoring"
)

func testConfig() *Config {
	return &Config{
		Scoring: &ScoringConfig{ProjectThreshold: scoring.DefaultProjectThreshold},
		Ranking: &RankingConfig{Config: ranking.Config{
			DuplicateThreshold: ranking.DefaultDuplicateThreshold,
			ShortlistThreshold: ranking.DefaultShortlistThreshold,
		}},
		AI: &AIConfig{},
	}
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "semantic profile", mutate: func(c *Config) { c.Scoring.Weights.Profile = "semantic" }},
		{name: "unknown profile", mutate: func(c *Config) { c.Scoring.Weights.Profile = "fancy" }, wantErr: true},
		{
			name: "profile and table together",
			mutate: func(c *Config) {
				c.Scoring.Weights.Profile = "standard"
				c.Scoring.Weights.Table = map[string]float64{"required": 1}
			},
			wantErr: true,
		},
		{name: "threshold above one", mutate: func(c *Config) { c.Scoring.ProjectThreshold = 1.5 }, wantErr: true},
		{name: "negative workers", mutate: func(c *Config) { c.Ranking.Workers = -1 }, wantErr: true},
		{name: "ai without gemini section", mutate: func(c *Config) { c.AI.Enabled = true }, wantErr: true},
		{name: "unknown provider", mutate: func(c *Config) { c.AI.Provider = "other" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewWeights(t *testing.T) {
	t.Parallel()

	weights, err := newWeights(WeightsConfig{Profile: "semantic"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(weights, scoring.SemanticWeights()) {
		t.Fatalf("expected semantic table, got %v", weights)
	}

	weights, err = newWeights(WeightsConfig{Table: map[string]float64{"required": 2, "experience": 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if weights["required"] != 2 || len(weights) != 2 {
		t.Fatalf("expected explicit table, got %v", weights)
	}

	_, err = newWeights(WeightsConfig{Table: map[string]float64{"charisma": 1}})
	var ve *profile.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *profile.ValidationError, got %v", err)
	}
}

func TestNewVocabulary(t *testing.T) {
	t.Parallel()

	vocab, err := newVocabulary(VocabularyConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vocab != scoring.DefaultVocabulary() {
		t.Fatalf("expected shared default vocabulary")
	}

	vocab, err = newVocabulary(VocabularyConfig{ActionVerbs: []string{"shipped"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := vocab.CountActionVerbs("Shipped it. Built it."); got != 1 {
		t.Fatalf("expected only configured verbs to count, got %d", got)
	}
	if !reflect.DeepEqual(vocab.SectionNames(), scoring.DefaultVocabulary().SectionNames()) {
		t.Fatalf("expected default sections to be kept, got %v", vocab.SectionNames())
	}
}

func TestSelectRole(t *testing.T) {
	t.Parallel()

	roles := []*profile.Role{
		{ID: "r1", Title: "Backend Developer"},
		{ID: "r2", Title: "Data Analyst"},
	}
	pickSecond := func([]string) (int, error) { return 1, nil }
	refuse := func([]string) (int, error) { return 0, errNoRoleChoice }

	tests := []struct {
		name    string
		roles   []*profile.Role
		title   string
		choose  roleChooser
		wantID  string
		wantErr bool
	}{
		{name: "by title", roles: roles, title: "data analyst", choose: refuse, wantID: "r2"},
		{name: "by id", roles: roles, title: "R1", choose: refuse, wantID: "r1"},
		{name: "unknown title", roles: roles, title: "Designer", choose: refuse, wantErr: true},
		{name: "single role", roles: roles[:1], choose: refuse, wantID: "r1"},
		{name: "chosen", roles: roles, choose: pickSecond, wantID: "r2"},
		{name: "no choice", roles: roles, choose: refuse, wantErr: true},
		{name: "out of range", roles: roles, choose: func([]string) (int, error) { return 5, nil }, wantErr: true},
		{name: "empty", choose: refuse, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			role, err := selectRole(tt.roles, tt.title, tt.choose)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if role.ID != tt.wantID {
				t.Fatalf("expected %s, got %s", tt.wantID, role.ID)
			}
		})
	}
}

func TestRoleTitles(t *testing.T) {
	t.Parallel()

	got := roleTitles([]*profile.Role{{Title: "A"}, {ID: "b"}, {}})
	want := []string{"A", "b", "role #3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestWithSynonyms(t *testing.T) {
	t.Parallel()

	role := &profile.Role{
		RequiredSkills: []string{"kubernetes"},
		Synonyms:       map[string][]string{"kubernetes": {"k8s"}},
	}

	merged := withSynonyms(role, map[string][]string{"Kubernetes": {"kube"}, "golang": {"go"}})

	if !reflect.DeepEqual(merged.Synonyms["kubernetes"], []string{"k8s", "kube"}) {
		t.Fatalf("unexpected merged synonyms: %v", merged.Synonyms["kubernetes"])
	}
	if !reflect.DeepEqual(merged.Synonyms["golang"], []string{"go"}) {
		t.Fatalf("expected global synonyms to be added, got %v", merged.Synonyms)
	}
	if len(role.Synonyms) != 1 || len(role.Synonyms["kubernetes"]) != 1 {
		t.Fatalf("original role must stay untouched, got %v", role.Synonyms)
	}
	if same := withSynonyms(role, nil); same != role {
		t.Fatalf("expected the same role without global synonyms")
	}
}

func TestNewEngineDeterministic(t *testing.T) {
	t.Parallel()

	e, err := newEngine(context.Background(), testConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := e.scorer.(*scoring.DeterministicScorer); !ok {
		t.Fatalf("expected deterministic scorer, got %T", e.scorer)
	}

	eval, err := e.scorer.Evaluate(context.Background(),
		&profile.Candidate{ID: "cand-1", Skills: []string{"python", "sql"}, ExperienceYears: 2},
		&profile.Role{ID: "role-1", RequiredSkills: []string{"python", "sql", "docker"}, IdealExperienceYears: 3},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eval.Match.Score != 79.42 {
		t.Fatalf("expected 79.42, got %v", eval.Match.Score)
	}
}

func TestNewEngineKeepsDeterministicScorerWithoutKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg := testConfig()
	cfg.AI = &AIConfig{
		Enabled:      true,
		LearningPlan: true,
		Gemini:       &GeminiConfig{APIKeyFile: filepath.Join(t.TempDir(), "missing")},
	}

	core, observed := observer.New(zapcore.WarnLevel)
	e, err := newEngine(context.Background(), cfg, zap.New(core))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := e.scorer.(*scoring.DeterministicScorer); !ok {
		t.Fatalf("expected deterministic scorer, got %T", e.scorer)
	}
	if observed.FilterMessage("skipping external evaluation").Len() != 1 {
		t.Fatalf("expected a warning about the missing key")
	}
}

func TestBuildGapReport(t *testing.T) {
	t.Parallel()

	planner := learning.NewPlanner(nil, nil, nil)
	report, err := buildGapReport(context.Background(), planner,
		&profile.Candidate{ID: "c", Skills: []string{"Python"}},
		&profile.Role{ID: "r", Title: "Backend", RequiredSkills: []string{"python", "Docker", "AWS"}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(report.SkillGap, []string{"docker", "aws"}) {
		t.Fatalf("unexpected gap: %v", report.SkillGap)
	}
	if report.Plan == nil || report.Plan.Generated {
		t.Fatalf("expected a curated plan, got %+v", report.Plan)
	}
	if report.Plan.EstimatedTimeWeeks != 4 {
		t.Fatalf("expected 4 weeks, got %d", report.Plan.EstimatedTimeWeeks)
	}
}

func TestAppendToExcludeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exclude.json")
	entries := &ranking.Entries{Items: []*ranking.Entry{
		{CandidateID: "a", Name: "Ann"},
		{CandidateID: "b"},
	}}

	if err := appendToExcludeFile(path, entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := appendToExcludeFile(path, entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := ranking.LoadExcludeList(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(list.IDs(), []string{"a", "b"}) {
		t.Fatalf("expected deduplicated ids, got %v", list.IDs())
	}
	if list.Items[0].Reason != excludeReason {
		t.Fatalf("expected reason %q, got %q", excludeReason, list.Items[0].Reason)
	}

	if err := appendToExcludeFile("", entries); !errors.Is(err, errNoExcludeFile) {
		t.Fatalf("expected errNoExcludeFile, got %v", err)
	}
}

func TestRankCandidates(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Ranking.DisabledFilters = []string{"duplicates"}

	e, err := newEngine(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	role := &profile.Role{ID: "r", RequiredSkills: []string{"go", "sql"}}
	candidates := []*profile.Candidate{
		{ID: "low", Skills: []string{"excel"}},
		{ID: "high", Skills: []string{"go", "sql"}},
	}

	entries, steps, err := rankCandidates(context.Background(), e, role, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(entries.IDs(), []string{"high", "low"}) {
		t.Fatalf("unexpected order: %v", entries.IDs())
	}
	if entries.Items[0].Status != ranking.StatusShortlisted || entries.Items[1].Status != ranking.StatusRejected {
		t.Fatalf("unexpected statuses: %s, %s", entries.Items[0].Status, entries.Items[1].Status)
	}

	for _, status := range ranking.Describe(steps) {
		if status.Name == "duplicates" && status.Enabled {
			t.Fatalf("expected duplicates filter to be disabled")
		}
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)

	if !strings.HasPrefix(buf.String(), app+" version: ") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
