// Package cli implements lineupctl, the operator tool for inspecting
// formation catalogs, persisted working records and the saved-lineup library.
package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DoyleJ11/lineup-backend/internal/catalog"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

type options struct {
	dataDir        string
	formationsFile string
	jsonOutput     bool
}

// NewRootCmd builds the lineupctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "lineupctl",
		Short: "Inspect formations, working records and saved lineups",
		Long: `lineupctl works directly on the data the lineup server persists with the
file storage driver. It can validate formation catalogs, dry-run the migration
of a stored working record and manage the saved-lineup library.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", dataDir, "Directory of the file storage driver")
	root.PersistentFlags().StringVar(&opts.formationsFile, "formations", os.Getenv("FORMATIONS_FILE"), "TOML formation catalog (built-in when empty)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	root.AddCommand(newFormationsCmd(opts))
	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newSavedCmd(opts))
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) catalog() (catalog.Catalog, error) {
	if o.formationsFile == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(o.formationsFile)
}
