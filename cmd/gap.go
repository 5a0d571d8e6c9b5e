package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/spigell/fitscore/internal/learning"
	"github.com/spigell/fitscore/internal/profile"
	"github.com/spigell/fitscore/internal/scoring"
)

type gapReport struct {
	CandidateID string         `json:"candidate_id"`
	RoleID      string         `json:"role_id"`
	RoleTitle   string         `json:"role_title,omitempty"`
	SkillGap    []string       `json:"skill_gap"`
	Plan        *learning.Plan `json:"plan"`
}

var gapCmd = &cobra.Command{
	Use:   "gap",
	Short: "Show missing required skills and a learning plan to close them",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck

		candidatePath, _ := cmd.Flags().GetString("candidate")
		rolePath, _ := cmd.Flags().GetString("role")
		title, _ := cmd.Flags().GetString("role-title")

		candidate, err := profile.LoadCandidate(candidatePath)
		if err != nil {
			return err
		}
		role, err := loadRole(rolePath, title)
		if err != nil {
			return err
		}

		report, err := buildGapReport(cmd.Context(), e.planner, candidate, role)
		if err != nil {
			return err
		}

		return writeJSON(cmd.OutOrStdout(), report)
	},
}

func init() {
	rootCmd.AddCommand(gapCmd)

	gapCmd.Flags().StringP("candidate", "c", "", "parsed candidate JSON file")
	gapCmd.Flags().StringP("role", "r", "", "parsed role JSON file (single role, array or catalog)")
	gapCmd.Flags().StringP("role-title", "t", "", "role title or ID to pick from a catalog")

	gapCmd.MarkFlagRequired("candidate") //nolint:errcheck
	gapCmd.MarkFlagRequired("role")      //nolint:errcheck
}

func buildGapReport(ctx context.Context, planner *learning.Planner, candidate *profile.Candidate, role *profile.Role) (*gapReport, error) {
	gaps := scoring.SkillGap(candidate.Skills, role.RequiredSkills)

	plan, err := planner.Plan(ctx, gaps, candidate.Skills, role.Title)
	if err != nil {
		return nil, err
	}

	return &gapReport{
		CandidateID: candidate.ID,
		RoleID:      role.ID,
		RoleTitle:   role.Title,
		SkillGap:    gaps,
		Plan:        plan,
	}, nil
}
