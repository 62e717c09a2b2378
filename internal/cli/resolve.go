// Package cli resolves the run inputs (template, data file, foldered and
// cleanup flags) from the command line or from operator prompts.
//
// Paths that were not given are auto-detected in the working directory: the
// only .docx file is the template, the only .xlsx file is the data file.
// In manual mode anything other than exactly one match is an error. In
// interactive mode the single match is offered for confirmation, and the
// operator can otherwise pick a file by name.
package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/ginjaninja78/mailmerge/internal/config"
	"github.com/ginjaninja78/mailmerge/pkg/utils"
)

// ErrAmbiguousInput is returned when an input was not given and cannot be
// auto-detected unambiguously.
var ErrAmbiguousInput = errors.New("ambiguous or missing input")

// Prompter asks the operator questions.
type Prompter interface {
	Confirm(question string) (bool, error)
	Choose(question string, options []string) (string, error)
}

// input describes one auto-detectable path input.
type input struct {
	label string
	ext   string
	flag  string
}

var (
	templateInput = input{label: "Word template", ext: ".docx", flag: "--word"}
	dataInput     = input{label: "Excel data", ext: ".xlsx", flag: "--excel"}
)

// Resolver fills in the inputs missing from a Config.
type Resolver struct {
	// Files scans the working directory.
	Files *utils.FileManager

	// Prompter is required when the configuration is interactive.
	Prompter Prompter

	// Out receives the decision lines.
	Out io.Writer
}

// Resolve returns cfg with TemplatePath and DataPath set, and with Foldered
// and Cleanup asked for in interactive mode.
func (r *Resolver) Resolve(cfg config.Config) (config.Config, error) {
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	interactive := cfg.Interactive()
	if interactive && r.Prompter == nil {
		return cfg, fmt.Errorf("interactive mode needs a prompter")
	}

	resolved := cfg

	tpl, err := r.resolvePath(cfg.TemplatePath, interactive, templateInput, out)
	if err != nil {
		return cfg, err
	}
	resolved.TemplatePath = tpl

	data, err := r.resolvePath(cfg.DataPath, interactive, dataInput, out)
	if err != nil {
		return cfg, err
	}
	resolved.DataPath = data

	if interactive {
		if !resolved.Foldered {
			if resolved.Foldered, err = r.Prompter.Confirm("Save each document in its own folder?"); err != nil {
				return cfg, err
			}
		}
		if !resolved.Cleanup {
			if resolved.Cleanup, err = r.Prompter.Confirm("Delete the .docx files after conversion?"); err != nil {
				return cfg, err
			}
		}
	}

	if resolved.Foldered {
		fmt.Fprintln(out, "Output files will be saved in different folders.")
	}
	if resolved.Cleanup {
		fmt.Fprintln(out, "Docx files will be deleted after conversion.")
	}

	return resolved, nil
}

// resolvePath returns the given path, or detects one.
func (r *Resolver) resolvePath(given string, interactive bool, in input, out io.Writer) (string, error) {
	if given != "" {
		fmt.Fprintf(out, "Using %s: %s\n", in.label, given)
		return given, nil
	}

	candidates, err := r.Files.DiscoverInputFiles(in.ext)
	if err != nil {
		return "", err
	}

	if !interactive {
		if len(candidates) != 1 {
			return "", ambiguous(in, candidates)
		}
		path := r.Files.InputPath(candidates[0])
		fmt.Fprintf(out, "Using %s: %s\n", in.label, path)
		return path, nil
	}

	if len(candidates) == 1 {
		ok, err := r.Prompter.Confirm(fmt.Sprintf("Use %s %q?", in.label, candidates[0]))
		if err != nil {
			return "", err
		}
		if ok {
			return r.Files.InputPath(candidates[0]), nil
		}
	}

	answer, err := r.Prompter.Choose(fmt.Sprintf("%s file", in.label), candidates)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", ambiguous(in, candidates)
	}
	if slices.Contains(candidates, answer) {
		return r.Files.InputPath(answer), nil
	}
	return answer, nil
}

func ambiguous(in input, candidates []string) error {
	if len(candidates) == 0 {
		return fmt.Errorf("%w: %s not provided and no %s file found, use %s",
			ErrAmbiguousInput, in.label, in.ext, in.flag)
	}
	return fmt.Errorf("%w: %s not provided and %d %s files found (%v), use %s",
		ErrAmbiguousInput, in.label, len(candidates), in.ext, candidates, in.flag)
}
