// =============================================================================
// Mail Merge - XLSX Data Parser
// =============================================================================
//
// This module reads the merge data from an Excel workbook. The first sheet
// is the data sheet:
//
//   | Column A | Column B          | Column C   |
//   |----------|-------------------|------------|
//   | Name     | Email             | Amount     |   <- header row
//   | Alice    | alice@example.com | 12.50      |   <- record 0
//   | Bob      | bob@example.com   |            |   <- record 1 (Amount missing)
//
// Cells are read as the text the spreadsheet displays (number formats and
// dates applied), which is exactly the text bound into the template.
//
// =============================================================================

package xlsxparser

import (
	"fmt"

	"github.com/ginjaninja78/mailmerge/internal/types"
	"github.com/xuri/excelize/v2"
)

// Extensions lists the workbook extensions this parser handles.
var Extensions = []string{".xlsx", ".xlsm"}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the first sheet of an XLSX workbook into a RecordSet.
//
// PARAMETERS:
//   - dataPath: The path to the workbook.
//
// RETURNS:
//   - The RecordSet (header row = column names, one record per data row).
//   - An error if the file cannot be opened or has no sheets.
func Parse(dataPath string) (*types.RecordSet, error) {
	return ParseSheet(dataPath, "")
}

// ParseSheet reads a named sheet. An empty sheet name selects the first
// sheet in the workbook.
func ParseSheet(dataPath, sheetName string) (*types.RecordSet, error) {
	f, err := excelize.OpenFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}

	return types.FromRows(dataPath, rows)
}

// SheetNames lists the sheets of a workbook in workbook order.
func SheetNames(dataPath string) ([]string, error) {
	f, err := excelize.OpenFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}
