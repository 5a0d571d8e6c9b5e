package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spigell/fitscore/internal/profile"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one candidate against one role",
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

		evaluation, err := e.scorer.Evaluate(cmd.Context(), candidate, withSynonyms(role, e.config.Synonyms))
		if err != nil {
			return err
		}

		return writeJSON(cmd.OutOrStdout(), evaluation)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("candidate", "c", "", "parsed candidate JSON file")
	scoreCmd.Flags().StringP("role", "r", "", "parsed role JSON file (single role, array or catalog)")
	scoreCmd.Flags().StringP("role-title", "t", "", "role title or ID to pick from a catalog")

	scoreCmd.MarkFlagRequired("candidate") //nolint:errcheck
	scoreCmd.MarkFlagRequired("role")      //nolint:errcheck
}
