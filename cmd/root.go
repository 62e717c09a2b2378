// =============================================================================
// Mail Merge - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Running the root
// command performs the merge; the subcommands are helpers.
//
// COBRA CLI STRUCTURE:
//   rootCmd (mailmerge)          render + convert every record
//   ├── inspectCmd (inspect)     show columns and identifier candidates
//   └── versionCmd (version)     show build information
//
// MODES:
//   Without -m the run is interactive: missing inputs are auto-detected and
//   offered for confirmation, and the foldered/cleanup options are asked.
//   With -m nothing is asked; inputs come from flags, configuration or
//   auto-detection, and an ambiguous detection stops the run.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/mailmerge/internal/config"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to an explicit configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mailmerge",
	Short: "Mail Merge - Render a Word template for every spreadsheet row and convert it to PDF",
	Long: `mailmerge reads records from a spreadsheet, fills a Word template with each
record and converts the result to PDF.

Placeholders in the template are written as {Column Name}. Output files are
named after a column with unique values (the first one found, or the one given
with --id-column), or after the row number when there is none.

Output layout:
  output/{template}_{id}.pdf          (default)
  output/doc_{id}/{template}.pdf      (--foldered)

Example Usage:
  mailmerge                                    # interactive
  mailmerge -m -w letter.docx -e people.xlsx   # non-interactive
  mailmerge -m -f -c                           # auto-detect inputs, foldered, delete .docx`,

	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runMerge(cmd)
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Persistent flags are available to this command and all subcommands.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"configuration file (default: ./mailmerge.yaml if present)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"enable debug logging",
	)

	config.RegisterFlags(rootCmd.Flags())
}

// loadConfig resolves the configuration for cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}
