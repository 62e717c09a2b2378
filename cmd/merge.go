// =============================================================================
// Mail Merge - Merge Run
// =============================================================================
//
// This file implements the root command's run. It orchestrates the whole
// pipeline for one template and one data file.
//
// PROCESSING PIPELINE:
//   1. Load configuration (flags > env > config file > defaults)
//   2. Resolve inputs (flags, auto-detection, prompts)
//   3. Load the data file and choose the identifier column
//   4. Check identifiers (unknown column, duplicates, path separators)
//   5. Check the template and locate the PDF converter
//   6. For each record, in order: render, save, convert, clean up
//   7. Print the summary (and write the run manifest if enabled)
//
// Any error stops the run; documents already produced stay in place.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ginjaninja78/mailmerge/internal/cli"
	"github.com/ginjaninja78/mailmerge/internal/config"
	"github.com/ginjaninja78/mailmerge/internal/converter"
	"github.com/ginjaninja78/mailmerge/internal/csvparser"
	"github.com/ginjaninja78/mailmerge/internal/loader"
	"github.com/ginjaninja78/mailmerge/internal/logging"
	"github.com/ginjaninja78/mailmerge/internal/pipeline"
	"github.com/ginjaninja78/mailmerge/internal/planner"
	"github.com/ginjaninja78/mailmerge/internal/prompt"
	"github.com/ginjaninja78/mailmerge/internal/render"
	"github.com/ginjaninja78/mailmerge/internal/validation"
	"github.com/ginjaninja78/mailmerge/pkg/utils"
	"github.com/spf13/cobra"
)

// workDir is the directory scanned for inputs that are not given.
const workDir = "."

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runMerge is the main function that orchestrates the merge.
func runMerge(cmd *cobra.Command) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	// =========================================================================
	// STEP 2: RESOLVE INPUTS
	// =========================================================================

	fm := utils.NewFileManager(workDir, cfg.OutputDir)
	resolver := &cli.Resolver{Files: fm, Out: out}
	loadOpts := loader.Options{
		Interactive: cfg.Interactive(),
		IDColumn:    cfg.IDColumn,
		Sheet:       cfg.Sheet,
		CSV:         csvparser.Settings{Delimiter: cfg.CSV.Delimiter},
		Out:         out,
		Logger:      logger,
	}
	if cfg.Interactive() {
		p := prompt.New(cmd.InOrStdin(), out)
		resolver.Prompter = p
		loadOpts.Prompter = p
	}

	cfg, err = resolver.Resolve(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nCreating documents from %s using %s\n", cfg.DataPath, cfg.TemplatePath)

	// =========================================================================
	// STEP 3: LOAD DATA
	// =========================================================================

	rs, idColumn, err := loader.Load(cfg.DataPath, loadOpts)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 4: CHECK IDENTIFIERS
	// =========================================================================

	checks := validation.CheckIdentifiers(rs, idColumn, validation.Options{StrictIDs: cfg.StrictIDs})
	warnings := checks.Warnings()
	for _, w := range warnings {
		logger.Warn("identifier check", slog.String("finding", w.Error()))
	}
	if len(checks.Errors) > 0 {
		fmt.Fprint(out, validation.FormatErrors(checks.Errors))
	}
	if err := checks.Err(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 5: PREPARE COLLABORATORS
	// =========================================================================

	renderer := render.NewDocxRenderer(cfg.TemplatePath)
	if err := renderer.Check(); err != nil {
		return err
	}

	conv, err := converter.NewOfficeConverter(converter.Options{
		Binary:   cfg.Converter.Binary,
		Validate: cfg.Converter.Validate,
	}, logger)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 6: RENDER AND CONVERT
	// =========================================================================

	pipe := pipeline.New(
		renderer,
		conv,
		planner.New(fm, out, logger),
		pipeline.Options{
			TemplateBase: planner.TemplateBase(cfg.TemplatePath),
			Foldered:     cfg.Foldered,
			Cleanup:      cfg.Cleanup,
		},
		out,
		logger,
	)

	summary, runErr := pipe.Run(rs, idColumn)

	// =========================================================================
	// STEP 7: SUMMARY
	// =========================================================================

	printSummary(out, summary, time.Since(startTime))

	if cfg.Manifest && utils.FileExists(cfg.OutputDir) {
		manifest := buildManifest(cfg, idColumn, startTime, summary, warnings, runErr)
		path, err := utils.WriteRunManifest(manifest, cfg.OutputDir)
		if err != nil {
			logger.Error("run manifest", slog.String("error", err.Error()))
		} else {
			fmt.Fprintf(out, "Run manifest:    %s\n", path)
		}
	}

	return runErr
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// printSummary prints the end-of-run counts.
func printSummary(out io.Writer, summary *pipeline.Summary, elapsed time.Duration) {
	fmt.Fprintln(out, "=== Merge Complete ===")
	fmt.Fprintf(out, "Records:         %d\n", summary.Records)
	fmt.Fprintf(out, "Documents:       %d\n", summary.Processed())
	fmt.Fprintf(out, "Time elapsed:    %s\n", elapsed.Round(time.Millisecond))
}

// buildManifest converts the run outcome into a manifest.
func buildManifest(cfg config.Config, idColumn string, start time.Time, summary *pipeline.Summary, warnings []*validation.ValidationError, runErr error) utils.RunManifest {
	m := utils.RunManifest{
		RunID:      utils.NewRunID(),
		StartTime:  start,
		EndTime:    time.Now(),
		Template:   cfg.TemplatePath,
		DataFile:   cfg.DataPath,
		IDColumn:   idColumn,
		Foldered:   cfg.Foldered,
		Cleanup:    cfg.Cleanup,
		Records:    summary.Records,
		Successful: runErr == nil,
	}
	for _, d := range summary.Documents {
		rec := utils.ManifestRecord{
			Index:      d.Index,
			Identifier: d.Identifier,
			Final:      d.Final,
			Pages:      d.Pages,
		}
		if d.IntermediateKept {
			rec.Intermediate = d.Intermediate
		}
		m.Documents = append(m.Documents, rec)
	}
	for _, w := range warnings {
		m.Warnings = append(m.Warnings, w.Error())
	}
	if runErr != nil {
		m.Error = runErr.Error()
	}
	return m
}
