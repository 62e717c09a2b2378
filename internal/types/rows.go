package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// ROW CONVERSION
// =============================================================================

// FromRows builds a RecordSet from raw rows where rows[0] is the header row.
//
// PARAMETERS:
//   - source: The data file path, kept for diagnostics.
//   - rows: Raw cell text. Rows may be shorter than the header (trailing
//     empty cells are commonly trimmed by readers).
//
// RETURNS:
//   - The RecordSet. Blank rows are skipped; records are indexed 0..N-1 in
//     the order they appear.
//   - An error if there is no header row or a header name repeats.
func FromRows(source string, rows [][]string) (*RecordSet, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no header row", source)
	}

	columns, err := headerColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	rs := &RecordSet{
		SourceFile: source,
		Columns:    columns,
		Records:    make([]Record, 0, len(rows)-1),
	}

	for _, row := range rows[1:] {
		if IsRowEmpty(row) {
			continue
		}

		values := make(map[string]string, len(columns))
		for i, col := range columns {
			if i >= len(row) {
				break
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			values[col] = cell
		}

		rs.Records = append(rs.Records, Record{
			Index:  len(rs.Records),
			Values: values,
		})
	}

	return rs, nil
}

// headerColumns cleans the header row. Unnamed columns get a positional
// name so every cell still has a key.
func headerColumns(header []string) ([]string, error) {
	// Drop trailing unnamed columns; they carry no data a template can use.
	end := len(header)
	for end > 0 && strings.TrimSpace(header[end-1]) == "" {
		end--
	}
	if end == 0 {
		return nil, fmt.Errorf("header row is empty")
	}

	seen := make(map[string]bool, end)
	columns := make([]string, 0, end)
	for i := 0; i < end; i++ {
		name := strings.TrimSpace(header[i])
		if name == "" {
			name = fmt.Sprintf("Column%d", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = true
		columns = append(columns, name)
	}
	return columns, nil
}

// IsRowEmpty checks if a row contains only empty cells.
func IsRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
