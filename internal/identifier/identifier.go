// =============================================================================
// Mail Merge - Identifier Resolver
// =============================================================================
//
// This module decides how each output document is named:
//
//   1. UniqueColumns finds the columns whose values can name files: every
//      non-missing value is distinct and at least one value is present.
//   2. Resolve returns the per-record identifier: the value of the chosen
//      column, or the record's positional index when no column was chosen.
//   3. SafeName turns an identifier into the file-name part it is written as.
//
// Uniqueness is advisory. Resolve does not re-check it; duplicates are
// reported by the validation package before rendering starts.
//
// =============================================================================

package identifier

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/mailmerge/internal/types"
)

// UniqueColumns returns the candidate identifier columns in column order.
//
// A column qualifies when the number of distinct non-missing values equals
// the number of non-missing values, and that number is at least one. A column
// that is empty in every record never qualifies.
func UniqueColumns(rs *types.RecordSet) []string {
	var candidates []string

	for _, col := range rs.Columns {
		seen := make(map[string]struct{}, len(rs.Records))
		present := 0
		for _, rec := range rs.Records {
			v, ok := rec.Get(col)
			if !ok {
				continue
			}
			present++
			seen[v] = struct{}{}
		}

		if present > 0 && len(seen) == present {
			candidates = append(candidates, col)
		}
	}

	return candidates
}

// Resolve returns the identifier for one record.
//
// PARAMETERS:
//   - column: The identifier column, or "" for positional naming.
//   - index: The record's zero-based position in the record set.
//   - rec: The record.
//
// RETURNS:
//   - The column value when a column is set, else the stringified index.
//     A record missing a value in the identifier column falls back to its
//     index too, so it still gets a distinct name.
func Resolve(column string, index int, rec types.Record) string {
	if column != "" {
		if v, ok := rec.Get(column); ok {
			return v
		}
	}
	return strconv.Itoa(index)
}

// Duplicates returns the file-name parts that more than one record maps to,
// in order of first repetition. Identifiers are compared after SafeName, so
// "a/b" and "a_b" collide just as they would on disk.
func Duplicates(rs *types.RecordSet, column string) []string {
	counts := make(map[string]int, len(rs.Records))
	var dups []string

	for _, rec := range rs.Records {
		name := SafeName(Resolve(column, rec.Index, rec))
		counts[name]++
		if counts[name] == 2 {
			dups = append(dups, name)
		}
	}

	return dups
}

// SafeName replaces path separators so an identifier cannot leave the
// output directory. "." and ".." on their own become underscores.
func SafeName(id string) string {
	id = strings.NewReplacer("/", "_", `\`, "_").Replace(id)
	if id == "." || id == ".." {
		id = strings.Repeat("_", len(id))
	}
	return id
}
