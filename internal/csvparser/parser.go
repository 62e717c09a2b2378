// =============================================================================
// Mail Merge - CSV Data Parser
// =============================================================================
//
// This module reads merge data exported as CSV instead of a workbook. The
// first row is the header row; every following non-blank row is a record.
//
// FEATURES:
//   - Configurable delimiter (comma, semicolon, pipe, tab)
//   - Tolerant of ragged rows and lazy quotes (spreadsheet exports)
//   - Strips a leading UTF-8 byte order mark written by Excel
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/mailmerge/internal/types"
)

// Extension is the data-file extension handled by this parser.
const Extension = ".csv"

// utf8BOM is written at the start of CSV files saved by Excel.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Settings contains settings for parsing CSV data files.
type Settings struct {
	// Delimiter is the field separator.
	// Accepted: ",", ";", "|", "\t" or the names "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns its records.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings.
//
// RETURNS:
//   - The RecordSet built from the header row and data rows.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings Settings) (*types.RecordSet, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	rows, err := readAll(bufio.NewReader(file), settings)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return types.FromRows(filePath, rows)
}

// readAll reads all rows, dropping a leading byte order mark.
func readAll(r *bufio.Reader, settings Settings) ([][]string, error) {
	if head, err := r.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := r.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	reader := csv.NewReader(r)
	configureReader(reader, settings)

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Allow a variable number of fields per row.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}
