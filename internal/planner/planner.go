// =============================================================================
// Mail Merge - Output Path Planner
// =============================================================================
//
// This module computes where each rendered document goes.
//
// LAYOUT:
//   flat:      {output}/{template}_{id}.docx     -> {output}/{template}_{id}.pdf
//   foldered:  {output}/doc_{id}/{template}.docx -> {output}/doc_{id}/{template}.pdf
//
// The output root is created lazily by the first Plan call, so a run that
// fails before saving anything leaves no output directory behind. Directory
// creation is idempotent: an existing folder is reused and nothing in it is
// removed.
//
// =============================================================================

package planner

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/mailmerge/internal/identifier"
	"github.com/ginjaninja78/mailmerge/pkg/utils"
)

// Default extensions of the intermediate and final documents.
const (
	IntermediateExt = ".docx"
	FinalExt        = ".pdf"
)

// folderPrefix names the per-record folder in foldered mode.
const folderPrefix = "doc_"

// Output describes the files produced for one record.
type Output struct {
	// Intermediate is the rendered, editable document.
	Intermediate string

	// Final is the converted document: Intermediate with FinalExt.
	Final string

	// Dir is the directory holding both files.
	Dir string
}

// Planner builds output paths under a root directory.
type Planner struct {
	// Files creates directories under the output root.
	Files *utils.FileManager

	// IntermediateExt and FinalExt default to .docx and .pdf.
	IntermediateExt string
	FinalExt        string

	out    io.Writer
	logger *slog.Logger
}

// New creates a Planner writing under fm.OutputDir. Folder decisions are
// printed to out.
func New(fm *utils.FileManager, out io.Writer, logger *slog.Logger) *Planner {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Planner{
		Files:           fm,
		IntermediateExt: IntermediateExt,
		FinalExt:        FinalExt,
		out:             out,
		logger:          logger,
	}
}

// Plan returns the output paths for one record, creating directories as
// needed.
//
// PARAMETERS:
//   - templateBase: The template file name without directory or extension.
//   - foldered: Whether each record gets its own folder.
//   - id: The record identifier.
//
// RETURNS:
//   - The Output paths.
//   - An error if a directory cannot be created.
func (p *Planner) Plan(templateBase string, foldered bool, id string) (Output, error) {
	if _, err := p.Files.EnsureOutputDir(); err != nil {
		return Output{}, err
	}

	id = identifier.SafeName(id)
	root := p.Files.OutputDir

	var dir, name string
	if foldered {
		dir = filepath.Join(root, folderPrefix+id)
		created, err := p.Files.EnsureDir(dir)
		if err != nil {
			return Output{}, err
		}
		if created {
			fmt.Fprintf(p.out, "Created folder: %s\n", dir)
			p.logger.Info("created folder", slog.String("dir", dir))
		} else {
			fmt.Fprintf(p.out, "Folder already exists: %s\n", dir)
			p.logger.Info("folder already exists", slog.String("dir", dir))
		}
		name = templateBase
	} else {
		dir = root
		name = fmt.Sprintf("%s_%s", templateBase, id)
	}

	intermediate := filepath.Join(dir, name+p.IntermediateExt)
	return Output{
		Intermediate: intermediate,
		Final:        ReplaceExt(intermediate, p.FinalExt),
		Dir:          dir,
	}, nil
}

// TemplateBase returns the template file name without directory and
// extension: "forms/letter.docx" -> "letter".
func TemplateBase(templatePath string) string {
	base := filepath.Base(templatePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReplaceExt swaps the extension of path for ext.
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
