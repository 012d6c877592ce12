package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/DoyleJ11/lineup-backend/internal/catalog"
)

func newFormationsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formations",
		Short: "List or validate formation catalogs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List formations and their slot codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.catalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, cat.List())
			}
			printSection(out, "Formations")
			for _, f := range cat.List() {
				fmt.Fprintf(out, "  %-8s %-14s ", f.Code, f.Name)
				printDim(out, "%s", strings.Join(f.SlotCodes(), " "))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Check a TOML formation catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			formations, err := catalog.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := catalog.Validate(formations); err != nil {
				for _, e := range multierr.Errors(err) {
					printError(out, e.Error())
				}
				return fmt.Errorf("%s is not a valid catalog", args[0])
			}
			printSuccess(out, fmt.Sprintf("%s: %d formations", args[0], len(formations)))
			return nil
		},
	})
	return cmd
}
