package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DoyleJ11/lineup-backend/internal/migrate"
)

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <record.json>",
		Short: "Show what a stored working record migrates to",
		Long: `migrate reads a persisted working lineup record of any supported shape and
prints the current-model lineup the server would restore from it. Nothing is
written back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.catalog()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read record: %w", err)
			}

			out := cmd.OutOrStdout()
			l := migrate.Load(data, cat)
			if l == nil {
				printWarning(out, "record is not recoverable; the session would start empty")
				return nil
			}
			if !opts.jsonOutput {
				printSection(out, fmt.Sprintf("Team %s, formation %s", l.TeamID, l.FormationCode))
			}
			return printJSON(out, l)
		},
	}
}
