package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRows(t *testing.T) {
	rows := [][]string{
		{"Name", " Email ", "City"},
		{"Ann", "ann@x.org", "Oslo"},
		{"", "", ""},
		{"Bob", "bob@x.org"},
		{"  Cy ", "", "Rome"},
	}

	rs, err := FromRows("people.xlsx", rows)
	require.NoError(t, err)

	assert.Equal(t, "people.xlsx", rs.SourceFile)
	assert.Equal(t, []string{"Name", "Email", "City"}, rs.Columns)
	require.Equal(t, 3, rs.Len())

	assert.Equal(t, 0, rs.Records[0].Index)
	assert.Equal(t, map[string]string{"Name": "Ann", "Email": "ann@x.org", "City": "Oslo"}, rs.Records[0].Values)

	// Short row: trailing cells absent.
	assert.Equal(t, 1, rs.Records[1].Index)
	_, ok := rs.Records[1].Get("City")
	assert.False(t, ok)

	// Empty cell absent, value trimmed.
	assert.Equal(t, 2, rs.Records[2].Index)
	v, ok := rs.Records[2].Get("Name")
	assert.True(t, ok)
	assert.Equal(t, "Cy", v)
	_, ok = rs.Records[2].Get("Email")
	assert.False(t, ok)
}

func TestFromRowsHeaderOnly(t *testing.T) {
	rs, err := FromRows("empty.xlsx", [][]string{{"Name", "Email"}})
	require.NoError(t, err)
	assert.Equal(t, 0, rs.Len())
	_, ok := rs.First()
	assert.False(t, ok)
}

func TestFromRowsHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want string
	}{
		{"no rows", nil, "no header row"},
		{"blank header", [][]string{{"", " "}}, "header row is empty"},
		{"duplicate header", [][]string{{"Name", "Name"}}, `duplicate column "Name"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRows("data.xlsx", tt.rows)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFromRowsUnnamedColumns(t *testing.T) {
	rs, err := FromRows("data.xlsx", [][]string{
		{"Name", "", "Email", ""},
		{"Ann", "note", "ann@x.org"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Column2", "Email"}, rs.Columns)
	v, _ := rs.Records[0].Get("Column2")
	assert.Equal(t, "note", v)
}

func TestRecordContextAndPreview(t *testing.T) {
	rec := Record{Index: 0, Values: map[string]string{"Name": "Ann", "City": "Oslo"}}

	ctx := rec.Context([]string{"Name", "Email", "City"})
	assert.Equal(t, map[string]string{"Name": "Ann", "Email": "", "City": "Oslo"}, ctx)
	assert.Equal(t, "{Name: Ann, Email: , City: Oslo}", rec.Preview([]string{"Name", "Email", "City"}))
}

func TestRecordSetHasColumn(t *testing.T) {
	rs := &RecordSet{Columns: []string{"Name", "Email"}}
	assert.True(t, rs.HasColumn("Email"))
	assert.False(t, rs.HasColumn("email"))
}

func TestIsRowEmpty(t *testing.T) {
	assert.True(t, IsRowEmpty(nil))
	assert.True(t, IsRowEmpty([]string{"", "  ", "\t"}))
	assert.False(t, IsRowEmpty([]string{"", "x"}))
}
