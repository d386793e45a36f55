package exportcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/fictags/internal/config"
	"github.com/lehigh-university-libraries/fictags/internal/metadata"
)

// NewExportCmd creates the export command that writes one row per work
func NewExportCmd() *cobra.Command {
	var configPath string
	var flags config.Config

	cmd := &cobra.Command{
		Use:   "export [roots...]",
		Short: "Extract the tag list of every EPUB under the given directories into a spreadsheet",
		Long: `Walk the given directories for .epub files, read the tag list on the first
content page of each work, and write one row per work.

Each row holds the package metadata (title, creators, publishers, description)
followed by the tag fields (rating, archive warnings, categories, fandoms,
relationships, characters, additional tags, language, series, stats). A work
that cannot be read gets a highlighted error cell instead of its tags, and the
export moves on to the next file.

Settings can also come from a YAML file (--config) and from the
FICTAGS_OUTPUT and FICTAGS_SHEET environment variables. Flags win.`,
		Example: `  # Export a library to works.xlsx
  fictags export ~/Books/ao3

  # Write a CSV copy next to the workbook, with debug logging
  fictags export ~/Books/ao3 --output ao3.xlsx --csv ao3.csv --verbose

  # Use the roots and outputs from a config file
  fictags export --config fictags.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg, &flags)
			if len(args) > 0 {
				cfg.Roots = args
			}
			if len(cfg.Roots) == 0 {
				return fmt.Errorf("no directories to export: pass them as arguments or set roots in the config file")
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			return executeExport(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&flags.Output, "output", "works.xlsx", "Path to the output workbook (empty to skip)")
	cmd.Flags().StringVar(&flags.CSV, "csv", "", "Also write rows to this CSV file")
	cmd.Flags().StringVar(&flags.Parquet, "parquet", "", "Also write rows to this parquet file")
	cmd.Flags().StringVar(&flags.Sheet, "sheet", "Works", "Worksheet name")
	cmd.Flags().BoolVar(&flags.Verbose, "verbose", false, "Verbose logging")
	cmd.Flags().StringVar(&flags.DescriptionFormat, "description-format", "text", "Render descriptions as text or markdown")

	return cmd
}

// applyFlags copies the flags the user set over cfg.
func applyFlags(cmd *cobra.Command, cfg, flags *config.Config) {
	set := cmd.Flags().Changed
	if set("output") {
		cfg.Output = flags.Output
	}
	if set("csv") {
		cfg.CSV = flags.CSV
	}
	if set("parquet") {
		cfg.Parquet = flags.Parquet
	}
	if set("sheet") {
		cfg.Sheet = flags.Sheet
	}
	if set("verbose") {
		cfg.Verbose = flags.Verbose
	}
	if set("description-format") {
		cfg.DescriptionFormat = flags.DescriptionFormat
	}
}

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var verbose bool
	var descriptionFormat string

	cmd := &cobra.Command{
		Use:   "inspect <file.epub>",
		Short: "Show what export would extract from one EPUB",
		Long: `Run the extraction on a single work and print the result as YAML: the
package metadata, the tag record and any tag labels that were not recognised,
or the error that would end up in the spreadsheet.`,
		Example: `  fictags inspect "~/Books/ao3/Some Work.epub"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := metadata.ParseFormat(descriptionFormat)
			if err != nil {
				return err
			}
			return executeInspect(args[0], format, verbose, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")
	cmd.Flags().StringVar(&descriptionFormat, "description-format", "text", "Render the description as text or markdown")

	return cmd
}
