// =============================================================================
// Mail Merge - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command, which loads a data file the same
// way a merge does and reports what the merge would use, without rendering:
//
//   mailmerge inspect people.xlsx
//   mailmerge inspect --sheet Contacts --id-column Email people.xlsx
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ginjaninja78/mailmerge/internal/config"
	"github.com/ginjaninja78/mailmerge/internal/csvparser"
	"github.com/ginjaninja78/mailmerge/internal/identifier"
	"github.com/ginjaninja78/mailmerge/internal/loader"
	"github.com/ginjaninja78/mailmerge/internal/logging"
	"github.com/ginjaninja78/mailmerge/internal/validation"
	"github.com/ginjaninja78/mailmerge/internal/xlsxparser"
	"github.com/spf13/cobra"
)

// inspectCmd represents the 'inspect' command.
var inspectCmd = &cobra.Command{
	Use:   "inspect <data-file>",
	Short: "Show the columns and identifier candidates of a data file",
	Long: `Inspect loads a data file and prints its sheets (for workbooks), columns,
the columns with unique values that can name output files, the identifier a
non-interactive merge would use, and any identifier problems.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, args[0])
	},
}

func init() {
	inspectCmd.Flags().String("sheet", "", "workbook sheet to read (default: first sheet)")
	inspectCmd.Flags().StringP("id-column", "i", "", "column used to name output files")
	inspectCmd.Flags().String("delimiter", config.DefaultDelimiter, "field delimiter for .csv data files")
	inspectCmd.Flags().Bool("strict-ids", false, "treat repeated identifiers as errors")

	rootCmd.AddCommand(inspectCmd)
}

// runInspect prints the data file report.
func runInspect(cmd *cobra.Command, dataPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	if slices.Contains(xlsxparser.Extensions, strings.ToLower(filepath.Ext(dataPath))) {
		sheets, err := xlsxparser.SheetNames(dataPath)
		if err == nil {
			fmt.Fprintf(out, "Sheets: [%s]\n", strings.Join(sheets, ", "))
		}
	}

	rs, idColumn, err := loader.Load(dataPath, loader.Options{
		IDColumn: cfg.IDColumn,
		Sheet:    cfg.Sheet,
		CSV:      csvparser.Settings{Delimiter: cfg.CSV.Delimiter},
		Out:      out,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Columns: [%s]\n", strings.Join(rs.Columns, ", "))
	fmt.Fprintf(out, "Records: %d\n", rs.Len())

	if first, ok := rs.First(); ok {
		fmt.Fprintf(out, "First identifier: %s\n", identifier.Resolve(idColumn, first.Index, first))
	}

	checks := validation.CheckIdentifiers(rs, idColumn, validation.Options{StrictIDs: cfg.StrictIDs})
	fmt.Fprint(out, validation.FormatErrors(checks.Errors))
	fmt.Fprintln(out)

	return checks.Err()
}
