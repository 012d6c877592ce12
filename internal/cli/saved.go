package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/DoyleJ11/lineup-backend/internal/clock"
	"github.com/DoyleJ11/lineup-backend/internal/persist"
	"github.com/DoyleJ11/lineup-backend/internal/saved"
)

func newSavedCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage the saved-lineup library",
	}

	var list saved.ListOptions
	var sort string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved lineups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := opts.library()
			if err != nil {
				return err
			}
			list.Sort = saved.SortOrder(sort)
			all, err := lib.List(cmd.Context(), list)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, all)
			}
			if len(all) == 0 {
				printDim(out, "no saved lineups")
				return nil
			}
			printSection(out, "Saved lineups")
			for _, l := range all {
				fmt.Fprintf(out, "  %-36s %-24s %-8s ", l.ID, l.Name, l.Formation.Code)
				printDim(out, "%s  %s", l.TeamName, l.UpdatedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
	listCmd.Flags().StringVarP(&list.Query, "query", "q", "", "Match name or notes")
	listCmd.Flags().StringVar(&list.TeamName, "team", "", "Only lineups for this team name")
	listCmd.Flags().StringVar(&list.FormationCode, "formation", "", "Only lineups in this formation")
	listCmd.Flags().StringVar(&sort, "sort", string(saved.SortUpdatedDesc), "updated-desc, updated-asc, name-asc or name-desc")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print one saved lineup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := opts.library()
			if err != nil {
				return err
			}
			l, err := lib.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), l)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a saved lineup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := opts.library()
			if err != nil {
				return err
			}
			if err := lib.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "removed "+args[0])
			return nil
		},
	})
	return cmd
}

func (o *options) library() (*saved.Library, error) {
	gw, err := persist.NewFile(o.dataDir, 0)
	if err != nil {
		return nil, err
	}
	return saved.New(gw, clock.Real{}), nil
}
