package cmd

import (
	"context"
	"errors"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/fitscore/internal/profile"
	"github.com/spigell/fitscore/internal/ranking"
)

const excludeReason = "ranked"

var errNoExcludeFile = errors.New("--append-exclude needs an exclude file")

type rankReport struct {
	RoleID    string           `json:"role_id"`
	RoleTitle string           `json:"role_title,omitempty"`
	Filters   []ranking.Status `json:"filters"`
	Entries   []*ranking.Entry `json:"entries"`
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank many candidates against one role",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck

		rolePath, _ := cmd.Flags().GetString("role")
		title, _ := cmd.Flags().GetString("role-title")
		paths, _ := cmd.Flags().GetStringSlice("candidates")
		appendExcluded, _ := cmd.Flags().GetBool("append-exclude")
		dump, _ := cmd.Flags().GetBool("dump")

		role, err := loadRole(rolePath, title)
		if err != nil {
			return err
		}
		candidates, err := profile.LoadCandidates(paths)
		if err != nil {
			return err
		}

		role = withSynonyms(role, e.config.Synonyms)
		entries, steps, err := rankCandidates(cmd.Context(), e, role, candidates)
		if err != nil {
			return err
		}

		if dump {
			file, err := entries.DumpToTmpFile()
			if err != nil {
				return err
			}
			e.logger.Info("ranking dumped", zap.String("file", file))
		}

		if appendExcluded {
			if err := appendToExcludeFile(e.config.Ranking.ExcludeFile, entries); err != nil {
				return err
			}
			e.logger.Info("ranked candidates appended to exclude file",
				zap.String("file", e.config.Ranking.ExcludeFile),
				zap.Int("count", entries.Len()),
			)
		}

		return writeJSON(cmd.OutOrStdout(), &rankReport{
			RoleID:    role.ID,
			RoleTitle: role.Title,
			Filters:   ranking.Describe(steps),
			Entries:   entries.Items,
		})
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("role", "r", "", "parsed role JSON file (single role, array or catalog)")
	rankCmd.Flags().StringP("role-title", "t", "", "role title or ID to pick from a catalog")
	rankCmd.Flags().StringSlice("candidates", nil, "parsed candidate JSON files or directories")
	rankCmd.Flags().StringP("exclude-file", "e", "", "file with candidates to exclude. Default is unset.")
	rankCmd.Flags().Bool("append-exclude", false, "append ranked candidates to the exclude file")
	rankCmd.Flags().Bool("dump", false, "dump the ranking to a temporary file")

	rankCmd.MarkFlagRequired("role")       //nolint:errcheck
	rankCmd.MarkFlagRequired("candidates") //nolint:errcheck

	viper.BindPFlag("ranking.exclude-file", rankCmd.Flags().Lookup("exclude-file"))
}

func rankCandidates(ctx context.Context, e *engine, role *profile.Role, candidates []*profile.Candidate) (*ranking.Entries, []ranking.Filter, error) {
	entries, err := ranking.Rank(ctx, e.scorer, role, candidates, e.config.Ranking.Workers, e.logger)
	if err != nil {
		return nil, nil, err
	}

	steps := ranking.Default()
	for _, name := range e.config.Ranking.DisabledFilters {
		ranking.DisableByName(steps, name, "disabled by config")
	}

	entries, err = ranking.Run(ctx, &e.config.Ranking.Config, ranking.Deps{Logger: e.logger}, steps, entries)
	if err != nil {
		return nil, nil, err
	}

	return entries, steps, nil
}

func appendToExcludeFile(path string, entries *ranking.Entries) error {
	if path == "" {
		return errNoExcludeFile
	}

	list, err := ranking.LoadExcludeList(path)
	if errors.Is(err, fs.ErrNotExist) {
		list, err = &ranking.ExcludeList{}, nil
	}
	if err != nil {
		return err
	}

	list.Append(entries.ToExcluded(excludeReason))
	return list.ToFile(path)
}
