// =============================================================================
// Mail Merge - Validation
// =============================================================================
//
// This module checks the identifier choice before any document is written:
//   - The identifier column must be one of the header columns
//   - Identifier values should be distinct across records once sanitized for
//     the file system (two records with the same file name write the same
//     output path, last writer wins)
//   - Identifier values containing path separators are flagged; the planner
//     replaces the separators when building the file name
//
// ERROR HANDLING:
//   - Checks collect ValidationErrors instead of stopping at the first one
//   - Each error carries the record index, column and value
//   - Severity "error" is fatal, "warning" is reported and the run continues
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/mailmerge/internal/identifier"
	"github.com/ginjaninja78/mailmerge/internal/types"
)

var (
	// ErrUnknownColumn is returned when an identifier column is not in the header.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrDuplicateIdentifier is returned when duplicates are fatal.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rules.
const (
	RuleKnownColumn = "known_column"
	RuleUniqueID    = "unique_identifier"
	RulePathSafeID  = "path_safe_identifier"
)

// noRecord marks a finding that is not tied to a single record.
const noRecord = -1

// pathSeparators are replaced by the planner when naming files.
const pathSeparators = `/\`

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is SeverityError (fatal) or SeverityWarning.
	Severity string

	// Column is the column the finding is about.
	Column string

	// Value is the offending value.
	Value string

	// Rule is the rule that was violated.
	Rule string

	// Message is a human-readable message.
	Message string

	// RecordIndex is the zero-based record position, or -1 when the finding
	// is not tied to a single record.
	RecordIndex int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	where := "Data"
	if e.RecordIndex >= 0 {
		where = fmt.Sprintf("Record %d", e.RecordIndex)
	}
	return fmt.Sprintf("[%s] %s, Column '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		where,
		e.Column,
		e.Message,
		e.Value,
	)
}

// Unwrap maps the rule to its sentinel so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	switch e.Rule {
	case RuleKnownColumn:
		return ErrUnknownColumn
	case RuleUniqueID:
		if e.Severity == SeverityError {
			return ErrDuplicateIdentifier
		}
	}
	return nil
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result contains the findings of a validation pass.
type Result struct {
	// Errors contains all findings, warnings included.
	Errors []*ValidationError

	// ErrorCount is the number of fatal findings.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int
}

// IsValid is true if there are no fatal findings.
func (r *Result) IsValid() bool {
	return r.ErrorCount == 0
}

// Err returns the first fatal finding, or nil.
func (r *Result) Err() error {
	for _, e := range r.Errors {
		if e.Severity == SeverityError {
			return e
		}
	}
	return nil
}

// Warnings returns the non-fatal findings.
func (r *Result) Warnings() []*ValidationError {
	var out []*ValidationError
	for _, e := range r.Errors {
		if e.Severity == SeverityWarning {
			out = append(out, e)
		}
	}
	return out
}

func (r *Result) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// CHECKS
// =============================================================================

// ValidateIdentifierColumn rejects a column name that is not in the header.
// An empty column means positional naming and is always valid.
func ValidateIdentifierColumn(rs *types.RecordSet, column string) error {
	if column == "" || rs.HasColumn(column) {
		return nil
	}
	return &ValidationError{
		Severity:    SeverityError,
		Column:      column,
		Value:       column,
		Rule:        RuleKnownColumn,
		Message:     fmt.Sprintf("not a column of %s (columns: %s)", rs.SourceFile, strings.Join(rs.Columns, ", ")),
		RecordIndex: noRecord,
	}
}

// Options controls how identifier findings are graded.
type Options struct {
	// StrictIDs makes duplicate identifiers fatal.
	StrictIDs bool
}

// CheckIdentifiers validates the identifier column and the identifiers every
// record resolves to.
//
// PARAMETERS:
//   - rs: The loaded record set.
//   - column: The identifier column ("" for positional naming).
//   - opts: Severity options.
//
// RETURNS:
//   - A Result with one finding per offending record.
func CheckIdentifiers(rs *types.RecordSet, column string, opts Options) *Result {
	result := &Result{}

	if err := ValidateIdentifierColumn(rs, column); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			result.add(verr)
		}
		return result
	}

	dupSeverity := SeverityWarning
	if opts.StrictIDs {
		dupSeverity = SeverityError
	}

	// Collisions are judged on the file-name part, not the raw value.
	dups := make(map[string]bool)
	for _, name := range identifier.Duplicates(rs, column) {
		dups[name] = true
	}

	first := make(map[string]int)
	for _, rec := range rs.Records {
		id := identifier.Resolve(column, rec.Index, rec)
		name := identifier.SafeName(id)

		if dups[name] {
			if prev, seen := first[name]; seen {
				result.add(&ValidationError{
					Severity:    dupSeverity,
					Column:      column,
					Value:       id,
					Rule:        RuleUniqueID,
					Message:     fmt.Sprintf("file name %q already used by record %d, output will be overwritten", name, prev),
					RecordIndex: rec.Index,
				})
			} else {
				first[name] = rec.Index
			}
		}

		if strings.ContainsAny(id, pathSeparators) {
			result.add(&ValidationError{
				Severity:    SeverityWarning,
				Column:      column,
				Value:       id,
				Rule:        RulePathSafeID,
				Message:     "identifier contains a path separator, it will be replaced with '_'",
				RecordIndex: rec.Index,
			})
		}
	}

	return result
}

// FormatErrors formats findings for display or logging.
func FormatErrors(errs []*ValidationError) string {
	if len(errs) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n", len(errs)))
	for i, err := range errs {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}
	return builder.String()
}
