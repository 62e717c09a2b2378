// =============================================================================
// Mail Merge - Render Pipeline
// =============================================================================
//
// This module drives the per-record loop. For each record, in load order:
//
//   1. Build the render context (every column as text)
//   2. Render the template with the context
//   3. Resolve the identifier and plan the output paths
//   4. Save the rendered document to the intermediate path
//   5. Convert it to the final format next to it
//   6. Delete the intermediate document if cleanup is enabled
//
// Any error aborts the run. Documents produced for earlier records stay on
// disk; the returned Summary lists them so the caller can report what was
// done before the failure.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ginjaninja78/mailmerge/internal/converter"
	"github.com/ginjaninja78/mailmerge/internal/identifier"
	"github.com/ginjaninja78/mailmerge/internal/planner"
	"github.com/ginjaninja78/mailmerge/internal/render"
	"github.com/ginjaninja78/mailmerge/internal/types"
	"github.com/ginjaninja78/mailmerge/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURES
// =============================================================================

// Document is the outcome of one record.
type Document struct {
	// Index is the record's position in the record set.
	Index int

	// Identifier is the value used to name the outputs.
	Identifier string

	// Intermediate is the rendered document path.
	Intermediate string

	// IntermediateKept is false when cleanup removed the intermediate.
	IntermediateKept bool

	// Final is the converted document path.
	Final string

	// Pages is the final document's page count (0 if unknown).
	Pages int
}

// Summary collects the documents produced by a run.
type Summary struct {
	// Records is the number of records in the set.
	Records int

	// Documents lists completed records in processing order.
	Documents []Document
}

// Processed returns the number of completed records.
func (s *Summary) Processed() int {
	return len(s.Documents)
}

// =============================================================================
// PIPELINE
// =============================================================================

// Options holds the per-run settings.
type Options struct {
	// TemplateBase is the template name used in output file names.
	TemplateBase string

	// Foldered places each record's output in its own folder.
	Foldered bool

	// Cleanup deletes the intermediate document after conversion.
	Cleanup bool
}

// Pipeline renders and converts a record set.
type Pipeline struct {
	renderer  render.Renderer
	converter converter.Converter
	planner   *planner.Planner
	opts      Options
	out       io.Writer
	logger    *slog.Logger
}

// New creates a Pipeline.
//
// PARAMETERS:
//   - r: The template renderer.
//   - c: The final-format converter.
//   - p: The output path planner.
//   - opts: Run settings.
//   - out: Destination of the progress lines.
//   - logger: Structured diagnostics.
func New(r render.Renderer, c converter.Converter, p *planner.Planner, opts Options, out io.Writer, logger *slog.Logger) *Pipeline {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		renderer:  r,
		converter: c,
		planner:   p,
		opts:      opts,
		out:       out,
		logger:    logger,
	}
}

// Run processes every record in order.
//
// PARAMETERS:
//   - rs: The record set.
//   - idColumn: The identifier column, or "" for positional naming.
//
// RETURNS:
//   - The Summary of completed records (also on error).
//   - The first error encountered; processing stops there.
func (p *Pipeline) Run(rs *types.RecordSet, idColumn string) (*Summary, error) {
	summary := &Summary{Records: rs.Len()}

	for _, rec := range rs.Records {
		doc, err := p.processRecord(rs, rec, idColumn)
		if err != nil {
			return summary, fmt.Errorf("record %d: %w", rec.Index, err)
		}
		summary.Documents = append(summary.Documents, doc)
	}

	p.logger.Info("run complete",
		slog.Int("records", summary.Records),
		slog.Int("documents", summary.Processed()),
	)
	return summary, nil
}

// processRecord runs the render/save/convert/cleanup steps for one record.
func (p *Pipeline) processRecord(rs *types.RecordSet, rec types.Record, idColumn string) (Document, error) {
	ctx := rec.Context(rs.Columns)
	fmt.Fprintf(p.out, "Parsing data line %d: %s\n", rec.Index, rec.Preview(rs.Columns))
	p.logger.Debug("render context", slog.Int("index", rec.Index), slog.Any("context", ctx))

	rendered, err := p.renderer.Render(ctx)
	if err != nil {
		return Document{}, err
	}

	id := identifier.Resolve(idColumn, rec.Index, rec)
	out, err := p.planner.Plan(p.opts.TemplateBase, p.opts.Foldered, id)
	if err != nil {
		return Document{}, err
	}

	if err := rendered.Save(out.Intermediate); err != nil {
		return Document{}, err
	}
	p.logger.Debug("saved", slog.String("path", out.Intermediate))

	res, err := p.converter.Convert(out.Intermediate)
	if err != nil {
		return Document{}, err
	}
	if res.Output != out.Final {
		return Document{}, fmt.Errorf("%w: converter wrote %s, expected %s", converter.ErrConversion, res.Output, out.Final)
	}

	doc := Document{
		Index:            rec.Index,
		Identifier:       id,
		Intermediate:     out.Intermediate,
		IntermediateKept: true,
		Final:            out.Final,
		Pages:            res.Pages,
	}

	if p.opts.Cleanup {
		if err := utils.RemoveFile(out.Intermediate); err != nil {
			return Document{}, err
		}
		doc.IntermediateKept = false
		fmt.Fprintf(p.out, "Deleted file: %s\n", out.Intermediate)
	}

	if res.Pages > 0 {
		fmt.Fprintf(p.out, "File %s generated (%d pages).\n\n", out.Final, res.Pages)
	} else {
		fmt.Fprintf(p.out, "File %s generated.\n\n", out.Final)
	}
	p.logger.Info("document generated",
		slog.Int("index", rec.Index),
		slog.String("identifier", id),
		slog.String("final", out.Final),
	)

	return doc, nil
}
