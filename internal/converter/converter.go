// =============================================================================
// Mail Merge - Format Converter
// =============================================================================
//
// This module turns the rendered .docx into the distributable PDF. The
// conversion itself is done by LibreOffice in headless mode:
//
//   soffice --headless --convert-to pdf --outdir <dir of src> <src>
//
// which writes <dir>/<stem>.pdf next to the source. After conversion the PDF
// is checked with pdfcpu (structure validation and page count) unless
// validation is disabled.
//
// Command execution sits behind the executor interface so tests can replace
// LibreOffice with a fake that writes the expected file.
//
// =============================================================================

package converter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	// ErrConverterMissing is returned when no converter binary is on PATH.
	ErrConverterMissing = errors.New("converter not available")

	// ErrConversion is returned when a document cannot be converted.
	ErrConversion = errors.New("conversion failed")
)

// DefaultBinaries are tried in order when no binary is configured.
var DefaultBinaries = []string{"soffice", "libreoffice"}

// finalFormat is the LibreOffice filter target and the output extension.
const finalFormat = "pdf"

// =============================================================================
// CONVERTER INTERFACE
// =============================================================================

// Result describes a converted document.
type Result struct {
	// Output is the path of the converted file.
	Output string

	// Pages is the page count, or 0 when validation is disabled.
	Pages int
}

// Converter converts an intermediate document into the final format. The
// output is written next to the source with the same stem.
type Converter interface {
	Convert(src string) (Result, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// =============================================================================
// OFFICE CONVERTER
// =============================================================================

// Options configures the office converter.
type Options struct {
	// Binary is the LibreOffice executable; empty tries DefaultBinaries.
	Binary string

	// Validate checks each PDF with pdfcpu and reports its page count.
	Validate bool
}

// OfficeConverter converts documents with a LibreOffice binary.
type OfficeConverter struct {
	bin      string
	validate bool
	exec     executor
	logger   *slog.Logger
}

// NewOfficeConverter locates the LibreOffice binary.
//
// RETURNS:
//   - The converter.
//   - An error wrapping ErrConverterMissing if no binary is found on PATH.
func NewOfficeConverter(opts Options, logger *slog.Logger) (*OfficeConverter, error) {
	return newOfficeConverter(opts, &osExecutor{}, logger)
}

func newOfficeConverter(opts Options, ex executor, logger *slog.Logger) (*OfficeConverter, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	candidates := DefaultBinaries
	if opts.Binary != "" {
		candidates = []string{opts.Binary}
	}

	for _, c := range candidates {
		path, err := ex.LookPath(c)
		if err != nil {
			continue
		}
		logger.Debug("using converter", slog.String("binary", path))
		return &OfficeConverter{
			bin:      path,
			validate: opts.Validate,
			exec:     ex,
			logger:   logger,
		}, nil
	}

	return nil, fmt.Errorf("%w: none of %s found on PATH (install LibreOffice or set converter.binary)",
		ErrConverterMissing, strings.Join(candidates, ", "))
}

// Binary returns the resolved converter executable.
func (c *OfficeConverter) Binary() string {
	return c.bin
}

// Convert converts src to PDF next to it.
//
// PARAMETERS:
//   - src: The intermediate document.
//
// RETURNS:
//   - The Result with the PDF path (src with a .pdf extension).
//   - An error wrapping ErrConversion if the command fails, produces no
//     file, or produces an invalid PDF.
func (c *OfficeConverter) Convert(src string) (Result, error) {
	outDir := filepath.Dir(src)
	target := strings.TrimSuffix(src, filepath.Ext(src)) + "." + finalFormat

	args := []string{
		"--headless",
		"--norestore",
		"--convert-to", finalFormat,
		"--outdir", outDir,
		src,
	}

	var stdout, stderr bytes.Buffer
	c.logger.Debug("converting", slog.String("src", src), slog.String("binary", c.bin))
	if err := c.exec.Run(c.bin, args, &stdout, &stderr); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v: %s", ErrConversion, src, err, strings.TrimSpace(stderr.String()))
	}

	if _, err := os.Stat(target); err != nil {
		return Result{}, fmt.Errorf("%w: %s: expected output %s was not produced: %s",
			ErrConversion, src, target, strings.TrimSpace(stdout.String()+stderr.String()))
	}

	res := Result{Output: target}
	if c.validate {
		pages, err := InspectPDF(target)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %s: %v", ErrConversion, target, err)
		}
		res.Pages = pages
	}

	return res, nil
}
