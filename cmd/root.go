package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/fictags/internal/exportcmd"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fictags",
		Short: "Fan-fiction EPUB tag extraction into spreadsheets",
		Long: `Fictags reads the tag list that fan-fiction archives print on the first
page of their EPUB downloads (rating, warnings, fandoms, relationships,
characters and so on) and writes one spreadsheet row per work.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(exportcmd.NewExportCmd())
	cmd.AddCommand(exportcmd.NewInspectCmd())

	return cmd
}
