package converter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor stands in for LibreOffice. On Run it writes output (if set)
// to <outdir>/<stem>.pdf, like soffice does.
type fakeExecutor struct {
	found  map[string]string
	output []byte
	runErr error

	calls [][]string
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if p, ok := f.found[file]; ok {
		return p, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (f *fakeExecutor) Run(name string, args []string, stdout, stderr io.Writer) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.runErr != nil {
		fmt.Fprint(stderr, "soffice crashed")
		return f.runErr
	}
	if f.output == nil {
		return nil
	}

	src := args[len(args)-1]
	var outDir string
	for i, a := range args {
		if a == "--outdir" {
			outDir = args[i+1]
		}
	}
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return os.WriteFile(filepath.Join(outDir, stem+".pdf"), f.output, 0o644)
}

// minimalPDF builds a well-formed PDF with the given number of blank pages.
func minimalPDF(pages int) []byte {
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	count := 2 + pages
	offsets := make([]int, count+1)

	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = b.Len()
	fmt.Fprintf(&b, "2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", strings.Join(kids, " "), pages)

	for i := 0; i < pages; i++ {
		offsets[3+i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n", 3+i)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", count+1)
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", count+1, xref)

	return []byte(b.String())
}

func writeSource(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "letter_1.docx")
	require.NoError(t, os.WriteFile(src, []byte("docx"), 0o644))
	return src
}

func TestNewOfficeConverterLookup(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		found   map[string]string
		want    string
		wantErr bool
	}{
		{
			name:  "soffice first",
			found: map[string]string{"soffice": "/usr/bin/soffice", "libreoffice": "/usr/bin/libreoffice"},
			want:  "/usr/bin/soffice",
		},
		{
			name:  "libreoffice fallback",
			found: map[string]string{"libreoffice": "/usr/bin/libreoffice"},
			want:  "/usr/bin/libreoffice",
		},
		{
			name:  "configured binary",
			opts:  Options{Binary: "lo7"},
			found: map[string]string{"soffice": "/usr/bin/soffice", "lo7": "/opt/lo7"},
			want:  "/opt/lo7",
		},
		{
			name:    "configured binary missing",
			opts:    Options{Binary: "lo7"},
			found:   map[string]string{"soffice": "/usr/bin/soffice"},
			wantErr: true,
		},
		{
			name:    "nothing installed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newOfficeConverter(tt.opts, &fakeExecutor{found: tt.found}, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConverterMissing)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Binary())
		})
	}
}

func TestConvert(t *testing.T) {
	ex := &fakeExecutor{found: map[string]string{"soffice": "soffice"}, output: []byte("%PDF-1.4")}
	c, err := newOfficeConverter(Options{}, ex, nil)
	require.NoError(t, err)

	src := writeSource(t)
	res, err := c.Convert(src)
	require.NoError(t, err)

	want := filepath.Join(filepath.Dir(src), "letter_1.pdf")
	assert.Equal(t, want, res.Output)
	assert.Equal(t, 0, res.Pages)
	assert.FileExists(t, want)

	require.Len(t, ex.calls, 1)
	assert.Equal(t, []string{
		"soffice", "--headless", "--norestore", "--convert-to", "pdf",
		"--outdir", filepath.Dir(src), src,
	}, ex.calls[0])
}

func TestConvertFailures(t *testing.T) {
	tests := []struct {
		name string
		ex   *fakeExecutor
		opts Options
		want string
	}{
		{
			name: "command fails",
			ex:   &fakeExecutor{runErr: errors.New("exit status 1")},
			want: "soffice crashed",
		},
		{
			name: "no output produced",
			ex:   &fakeExecutor{},
			want: "was not produced",
		},
		{
			name: "invalid pdf",
			ex:   &fakeExecutor{output: []byte("not a pdf")},
			opts: Options{Validate: true},
			want: "invalid pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.ex.found = map[string]string{"soffice": "soffice"}
			c, err := newOfficeConverter(tt.opts, tt.ex, nil)
			require.NoError(t, err)

			_, err = c.Convert(writeSource(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConversion)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConvertValidatesPDF(t *testing.T) {
	ex := &fakeExecutor{found: map[string]string{"soffice": "soffice"}, output: minimalPDF(2)}
	c, err := newOfficeConverter(Options{Validate: true}, ex, nil)
	require.NoError(t, err)

	res, err := c.Convert(writeSource(t))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
}

func TestInspectPDF(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.pdf")
	require.NoError(t, os.WriteFile(good, minimalPDF(1), 0o644))
	pages, err := InspectPDF(good)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)

	bad := filepath.Join(dir, "bad.pdf")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))
	_, err = InspectPDF(bad)
	assert.Error(t, err)

	_, err = InspectPDF(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)
}
