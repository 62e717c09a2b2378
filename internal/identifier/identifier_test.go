package identifier

import (
	"testing"

	"github.com/ginjaninja78/mailmerge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordSet(t *testing.T, rows ...[]string) *types.RecordSet {
	t.Helper()
	rs, err := types.FromRows("test.xlsx", rows)
	require.NoError(t, err)
	return rs
}

func TestUniqueColumns(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want []string
	}{
		{
			name: "repeated name is not unique",
			rows: [][]string{
				{"Name", "Email"},
				{"A", "a@x"},
				{"B", "b@x"},
				{"A", "c@x"},
			},
			want: []string{"Email"},
		},
		{
			name: "column order kept",
			rows: [][]string{
				{"Code", "Team", "Email"},
				{"1", "red", "a@x"},
				{"2", "red", "b@x"},
			},
			want: []string{"Code", "Email"},
		},
		{
			name: "missing values are ignored",
			rows: [][]string{
				{"Name", "Ref"},
				{"A", "r1"},
				{"A", ""},
				{"B", "r2"},
			},
			want: []string{"Ref"},
		},
		{
			name: "all missing never qualifies",
			rows: [][]string{
				{"Name", "Notes"},
				{"A", ""},
				{"B", ""},
			},
			want: []string{"Name"},
		},
		{
			name: "no candidates",
			rows: [][]string{
				{"Team"},
				{"red"},
				{"red"},
			},
			want: nil,
		},
		{
			name: "no records",
			rows: [][]string{{"Name", "Email"}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UniqueColumns(recordSet(t, tt.rows...)))
		})
	}
}

func TestResolve(t *testing.T) {
	rec := types.Record{Index: 4, Values: map[string]string{"Email": "a@x"}}

	assert.Equal(t, "a@x", Resolve("Email", 4, rec))
	assert.Equal(t, "4", Resolve("", 4, rec))
	assert.Equal(t, "4", Resolve("Name", 4, rec), "missing value falls back to the index")
}

func TestDuplicates(t *testing.T) {
	rs := recordSet(t,
		[]string{"Name", "Team"},
		[]string{"A", "red"},
		[]string{"B", "blue"},
		[]string{"C", "red"},
		[]string{"D", "blue"},
		[]string{"E", "red"},
	)

	assert.Equal(t, []string{"red", "blue"}, Duplicates(rs, "Team"))
	assert.Empty(t, Duplicates(rs, "Name"))
	assert.Empty(t, Duplicates(rs, ""))
}

func TestDuplicatesCompareFileNames(t *testing.T) {
	rs := recordSet(t,
		[]string{"Code"},
		[]string{"a/b"},
		[]string{"a_b"},
		[]string{".."},
		[]string{"__"},
		[]string{`c\d`},
	)

	assert.Equal(t, []string{"Code"}, UniqueColumns(rs), "raw values are distinct")
	assert.Equal(t, []string{"a_b", "__"}, Duplicates(rs, "Code"))
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "a_b_c", SafeName(`a/b\c`))
	assert.Equal(t, "_", SafeName("."))
	assert.Equal(t, "__", SafeName(".."))
	assert.Equal(t, "...", SafeName("..."))
	assert.Equal(t, "plain", SafeName("plain"))
}
