package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/mailmerge/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter answers from fixed scripts and records the questions.
type scriptedPrompter struct {
	confirms []bool
	answers  []string

	asked   []string
	options [][]string
}

func (p *scriptedPrompter) Confirm(question string) (bool, error) {
	p.asked = append(p.asked, question)
	ok := p.confirms[0]
	p.confirms = p.confirms[1:]
	return ok, nil
}

func (p *scriptedPrompter) Choose(question string, options []string) (string, error) {
	p.asked = append(p.asked, question)
	p.options = append(p.options, options)
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

const people = "Name,Email,Team\nA,a@x,red\nB,b@x,red\nA,c@x,blue\n"

func writeData(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadNotFound(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.xlsx"), Options{})
	assert.ErrorIs(t, err, ErrDataFileNotFound)
}

func TestLoadUnsupportedType(t *testing.T) {
	_, _, err := Load(writeData(t, "data.txt", people), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported data file type ".txt"`)
}

func TestLoadNonInteractivePicksFirstCandidate(t *testing.T) {
	var out bytes.Buffer
	rs, column, err := Load(writeData(t, "people.csv", people), Options{Out: &out})
	require.NoError(t, err)

	assert.Equal(t, 3, rs.Len())
	assert.Equal(t, "Email", column)
	assert.Contains(t, out.String(), "Unique columns: [Email]\n")
	assert.Contains(t, out.String(), "Identifier column: Email\n")
	assert.Contains(t, out.String(), "Data sample: {Name: A, Email: a@x, Team: red}\n")
}

func TestLoadNoCandidates(t *testing.T) {
	var out bytes.Buffer
	_, column, err := Load(writeData(t, "teams.csv", "Team\nred\nred\n"), Options{Out: &out})
	require.NoError(t, err)

	assert.Equal(t, "", column)
	assert.Contains(t, out.String(), "Unique columns: []\n")
	assert.Contains(t, out.String(), "named by row number")
}

func TestLoadNoRecords(t *testing.T) {
	var out bytes.Buffer
	rs, column, err := Load(writeData(t, "empty.csv", "Name,Email\n"), Options{Out: &out})
	require.NoError(t, err)

	assert.Equal(t, 0, rs.Len())
	assert.Equal(t, "", column)
	assert.Contains(t, out.String(), "Data sample: no records\n")
}

func TestLoadExplicitColumn(t *testing.T) {
	path := writeData(t, "people.csv", people)

	_, column, err := Load(path, Options{IDColumn: "Team"})
	require.NoError(t, err)
	assert.Equal(t, "Team", column, "explicit column is used even when not unique")

	_, _, err = Load(path, Options{IDColumn: "Phone"})
	assert.ErrorIs(t, err, validation.ErrUnknownColumn)
}

func TestLoadInteractive(t *testing.T) {
	path := writeData(t, "people.csv", people)

	tests := []struct {
		name     string
		prompter *scriptedPrompter
		want     string
		wantErr  error
	}{
		{
			name:     "confirm first candidate",
			prompter: &scriptedPrompter{confirms: []bool{true}},
			want:     "Email",
		},
		{
			name:     "decline then choose",
			prompter: &scriptedPrompter{confirms: []bool{false}, answers: []string{"Name"}},
			want:     "Name",
		},
		{
			name:     "decline then empty answer",
			prompter: &scriptedPrompter{confirms: []bool{false}, answers: []string{""}},
			want:     "",
		},
		{
			name:     "decline then unknown column",
			prompter: &scriptedPrompter{confirms: []bool{false}, answers: []string{"Phone"}},
			wantErr:  validation.ErrUnknownColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, column, err := Load(path, Options{Interactive: true, Prompter: tt.prompter})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, column)
			assert.Contains(t, tt.prompter.asked[0], `"Email"`)
		})
	}
}

func TestLoadInteractiveWithoutCandidatesOffersAllColumns(t *testing.T) {
	p := &scriptedPrompter{answers: []string{"Team"}}

	_, column, err := Load(writeData(t, "teams.csv", "Team,Size\nred,1\nred,1\n"), Options{Interactive: true, Prompter: p})
	require.NoError(t, err)

	assert.Equal(t, "Team", column)
	require.Len(t, p.options, 1)
	assert.Equal(t, []string{"Team", "Size"}, p.options[0])
}
