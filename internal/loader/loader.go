// =============================================================================
// Mail Merge - Data Loader
// =============================================================================
//
// This module loads the merge data and settles which column names the output
// files.
//
// LOADING PROCESS:
//   1. Check the data file exists (ErrDataFileNotFound otherwise)
//   2. Parse it by extension: .xlsx/.xlsm via excelize, .csv via encoding/csv
//   3. Find candidate identifier columns (identifier.UniqueColumns)
//   4. Pick the identifier column:
//        - an explicit column from configuration wins (validated)
//        - interactive: confirm the first candidate, else choose by name
//        - non-interactive: first candidate, or none (positional naming)
//   5. Print a preview of the first record
//
// =============================================================================

package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ginjaninja78/mailmerge/internal/csvparser"
	"github.com/ginjaninja78/mailmerge/internal/identifier"
	"github.com/ginjaninja78/mailmerge/internal/types"
	"github.com/ginjaninja78/mailmerge/internal/validation"
	"github.com/ginjaninja78/mailmerge/internal/xlsxparser"
)

// ErrDataFileNotFound is returned when the data file does not exist.
var ErrDataFileNotFound = errors.New("data file not found")

// Prompter asks the operator about the identifier column.
type Prompter interface {
	Confirm(question string) (bool, error)
	Choose(question string, options []string) (string, error)
}

// Options controls loading and identifier selection.
type Options struct {
	// Interactive enables operator confirmation of the identifier column.
	// Requires Prompter.
	Interactive bool

	// Prompter is used in interactive mode.
	Prompter Prompter

	// IDColumn forces the identifier column. It must name a header column.
	IDColumn string

	// Sheet selects the workbook sheet; empty means the first sheet.
	Sheet string

	// CSV holds the settings for .csv data files.
	CSV csvparser.Settings

	// Out receives the human-readable lines (candidates, preview).
	Out io.Writer

	// Logger receives structured diagnostics.
	Logger *slog.Logger
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the data file and resolves the identifier column.
//
// PARAMETERS:
//   - path: The data file path.
//   - opts: Loading options.
//
// RETURNS:
//   - The RecordSet.
//   - The identifier column, or "" when records are named by position.
//   - An error wrapping ErrDataFileNotFound, a parse error, or a
//     validation.ErrUnknownColumn for a bad explicit/typed column.
func Load(path string, opts Options) (*types.RecordSet, string, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrDataFileNotFound, path)
		}
		return nil, "", fmt.Errorf("failed to access data file: %w", err)
	}

	rs, err := parse(path, opts)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load data file %s: %w", path, err)
	}

	logger.Info("data loaded",
		slog.String("file", path),
		slog.Int("records", rs.Len()),
		slog.Any("columns", rs.Columns),
	)

	candidates := identifier.UniqueColumns(rs)
	fmt.Fprintf(out, "Unique columns: [%s]\n", strings.Join(candidates, ", "))

	column, err := selectColumn(rs, candidates, opts)
	if err != nil {
		return nil, "", err
	}
	if column == "" {
		fmt.Fprintln(out, "No identifier column, output files are named by row number.")
	} else {
		fmt.Fprintf(out, "Identifier column: %s\n", column)
	}

	if first, ok := rs.First(); ok {
		fmt.Fprintf(out, "Data sample: %s\n", first.Preview(rs.Columns))
	} else {
		fmt.Fprintln(out, "Data sample: no records")
	}

	return rs, column, nil
}

// parse dispatches on the file extension.
func parse(path string, opts Options) (*types.RecordSet, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == csvparser.Extension:
		return csvparser.Parse(path, opts.CSV)
	case slices.Contains(xlsxparser.Extensions, ext):
		return xlsxparser.ParseSheet(path, opts.Sheet)
	default:
		return nil, fmt.Errorf("unsupported data file type %q", ext)
	}
}

// selectColumn applies the selection rules in order: explicit, interactive,
// first candidate.
func selectColumn(rs *types.RecordSet, candidates []string, opts Options) (string, error) {
	if opts.IDColumn != "" {
		if err := validation.ValidateIdentifierColumn(rs, opts.IDColumn); err != nil {
			return "", err
		}
		return opts.IDColumn, nil
	}

	if opts.Interactive && opts.Prompter != nil {
		return askColumn(rs, candidates, opts.Prompter)
	}

	if len(candidates) > 0 {
		return candidates[0], nil
	}
	return "", nil
}

// askColumn confirms the first candidate, or asks for a column by name.
// An empty answer selects positional naming.
func askColumn(rs *types.RecordSet, candidates []string, p Prompter) (string, error) {
	if len(candidates) > 0 {
		ok, err := p.Confirm(fmt.Sprintf("Use column %q to name output files?", candidates[0]))
		if err != nil {
			return "", err
		}
		if ok {
			return candidates[0], nil
		}
	}

	options := candidates
	if len(options) == 0 {
		options = rs.Columns
	}

	answer, err := p.Choose("Identifier column (empty to use row numbers)", options)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", nil
	}
	if err := validation.ValidateIdentifierColumn(rs, answer); err != nil {
		return "", err
	}
	return answer, nil
}
