package xlsxparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves rows to Sheet1 and, when extra is set, a second sheet
// named "Extra" holding extra.
func writeWorkbook(t *testing.T, rows [][]any, extra [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	if extra != nil {
		_, err := f.NewSheet("Extra")
		require.NoError(t, err)
		for i, row := range extra {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow("Extra", cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Name", "Email", "Amount"},
		{"Alice", "alice@example.com", 12},
		{"Bob", "bob@example.com"},
	}, nil)

	rs, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, path, rs.SourceFile)
	assert.Equal(t, []string{"Name", "Email", "Amount"}, rs.Columns)
	require.Equal(t, 2, rs.Len())

	amount, ok := rs.Records[0].Get("Amount")
	assert.True(t, ok)
	assert.Equal(t, "12", amount)

	_, ok = rs.Records[1].Get("Amount")
	assert.False(t, ok)
}

func TestParseSheet(t *testing.T) {
	path := writeWorkbook(t,
		[][]any{{"Name"}, {"Alice"}},
		[][]any{{"Code", "City"}, {"X1", "Oslo"}, {"X2", "Rome"}},
	)

	rs, err := ParseSheet(path, "Extra")
	require.NoError(t, err)
	assert.Equal(t, []string{"Code", "City"}, rs.Columns)
	assert.Equal(t, 2, rs.Len())

	_, err = ParseSheet(path, "Missing")
	assert.Error(t, err)
}

func TestSheetNames(t *testing.T) {
	path := writeWorkbook(t, [][]any{{"Name"}}, [][]any{{"Code"}})

	names, err := SheetNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Extra"}, names)
}

func TestParseErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Parse(filepath.Join(dir, "missing.xlsx"))
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.xlsx")
	require.NoError(t, os.WriteFile(garbage, []byte("not a workbook"), 0o644))
	_, err = Parse(garbage)
	assert.Error(t, err)

	empty := writeWorkbook(t, nil, nil)
	_, err = Parse(empty)
	assert.Error(t, err, "a sheet without a header row is rejected")
}
