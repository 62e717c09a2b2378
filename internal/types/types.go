// =============================================================================
// Mail Merge - Shared Types
// =============================================================================
//
// This package contains the record types shared by the data readers, the
// identifier resolver, the validators and the render pipeline. Keeping them
// here avoids import cycles between:
//   - xlsxparser / csvparser (producers)
//   - identifier / validation (readers)
//   - pipeline (consumer)
//
// =============================================================================

package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// Record is one data row of the spreadsheet.
type Record struct {
	// Index is the zero-based position of the record in the record set.
	// Order follows the spreadsheet row order.
	Index int

	// Values maps column name to the cell text as displayed by the
	// spreadsheet. Missing (empty) cells are absent from the map.
	Values map[string]string
}

// Get returns the value for a column and whether it is present.
func (r Record) Get(column string) (string, bool) {
	v, ok := r.Values[column]
	return v, ok
}

// Context returns the render context for the record: every column of the
// record set mapped to text. Missing cells map to the empty string so that
// placeholders for them are cleared instead of left in the document.
func (r Record) Context(columns []string) map[string]string {
	ctx := make(map[string]string, len(columns))
	for _, col := range columns {
		ctx[col] = r.Values[col]
	}
	return ctx
}

// Preview renders the record as "{col: value, ...}" following columns, the
// spreadsheet's column order. Missing cells show as empty values.
func (r Record) Preview(columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("%s: %s", col, r.Values[col]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// RecordSet is the ordered collection of records produced by a data reader.
// It is read-only once built.
type RecordSet struct {
	// SourceFile is the path of the data file the records came from.
	SourceFile string

	// Columns holds the header names in spreadsheet column order.
	Columns []string

	// Records holds the data rows in spreadsheet row order.
	Records []Record
}

// Len returns the number of records.
func (rs *RecordSet) Len() int {
	return len(rs.Records)
}

// HasColumn reports whether name is one of the header columns.
func (rs *RecordSet) HasColumn(name string) bool {
	for _, c := range rs.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// First returns the first record, if any.
func (rs *RecordSet) First() (Record, bool) {
	if len(rs.Records) == 0 {
		return Record{}, false
	}
	return rs.Records[0], true
}
