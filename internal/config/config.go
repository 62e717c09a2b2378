// =============================================================================
// Mail Merge - Configuration Module
// =============================================================================
//
// This module resolves the run configuration. Values are layered, highest
// precedence first:
//
//   1. Command-line flags (only when given)
//   2. Environment variables, MAILMERGE_<KEY> (dots become underscores,
//      e.g. MAILMERGE_CONVERTER_BINARY)
//   3. The configuration file (--config, or ./mailmerge.yaml if present)
//   4. Built-in defaults
//
// EXAMPLE mailmerge.yaml:
//
//   output_dir: out
//   id_column: Email
//   foldered: true
//   converter:
//     binary: /opt/libreoffice/program/soffice
//   csv:
//     delimiter: ";"
//
// The resolved Config is a value; nothing mutates it during a run.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the resolved run configuration.
type Config struct {
	// =========================================================================
	// INPUTS
	// =========================================================================

	// TemplatePath is the Word template (.docx).
	TemplatePath string `mapstructure:"word"`

	// DataPath is the data file (.xlsx, .xlsm or .csv).
	DataPath string `mapstructure:"excel"`

	// Sheet selects the workbook sheet. Default: first sheet.
	Sheet string `mapstructure:"sheet"`

	// =========================================================================
	// BEHAVIOUR
	// =========================================================================

	// Foldered places each record's documents in output/doc_<id>/.
	Foldered bool `mapstructure:"foldered"`

	// Cleanup deletes the .docx after it has been converted.
	Cleanup bool `mapstructure:"cleanup"`

	// Manual disables all prompts. Missing inputs are auto-detected.
	Manual bool `mapstructure:"manual"`

	// IDColumn names the identifier column, skipping detection and prompts.
	IDColumn string `mapstructure:"id_column"`

	// StrictIDs makes duplicate identifiers fatal instead of a warning.
	StrictIDs bool `mapstructure:"strict_ids"`

	// =========================================================================
	// OUTPUT
	// =========================================================================

	// OutputDir is the root of all generated documents.
	// Default: "output"
	OutputDir string `mapstructure:"output_dir"`

	// Manifest writes a run_<timestamp>.yaml summary into OutputDir.
	Manifest bool `mapstructure:"manifest"`

	// =========================================================================
	// LOGGING
	// =========================================================================

	// LogLevel is one of debug, info, warn, error. Default: "warn"
	LogLevel string `mapstructure:"log_level"`

	// LogFormat is "text" or "json". Default: "text"
	LogFormat string `mapstructure:"log_format"`

	// =========================================================================
	// COLLABORATORS
	// =========================================================================

	CSV       CSVSettings       `mapstructure:"csv"`
	Converter ConverterSettings `mapstructure:"converter"`
}

// CSVSettings contains settings for .csv data files.
type CSVSettings struct {
	// Delimiter is the field separator. Default: ","
	Delimiter string `mapstructure:"delimiter"`
}

// ConverterSettings configures the PDF conversion step.
type ConverterSettings struct {
	// Binary is the LibreOffice executable. Default: soffice, then libreoffice.
	Binary string `mapstructure:"binary"`

	// Validate checks every produced PDF with pdfcpu. Default: true
	Validate bool `mapstructure:"validate"`
}

// Interactive reports whether prompts are allowed.
func (c Config) Interactive() bool {
	return !c.Manual
}

// =============================================================================
// FLAGS
// =============================================================================

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"word":         "word",
	"excel":        "excel",
	"sheet":        "sheet",
	"foldered":     "foldered",
	"cleanup":      "cleanup",
	"manual":       "manual",
	"id-column":    "id_column",
	"strict-ids":   "strict_ids",
	"output":       "output_dir",
	"manifest":     "manifest",
	"log-level":    "log_level",
	"log-format":   "log_format",
	"delimiter":    "csv.delimiter",
	"converter":    "converter.binary",
	"validate-pdf": "converter.validate",
}

// RegisterFlags defines the merge flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("word", "w", "", "Word template file (.docx)")
	fs.StringP("excel", "e", "", "data file (.xlsx, .xlsm or .csv)")
	fs.String("sheet", "", "workbook sheet to read (default: first sheet)")
	fs.BoolP("foldered", "f", false, "save each record's documents in its own folder")
	fs.BoolP("cleanup", "c", false, "delete the .docx files after conversion")
	fs.BoolP("manual", "m", false, "non-interactive: take inputs from flags or auto-detect them")
	fs.StringP("id-column", "i", "", "column used to name output files")
	fs.Bool("strict-ids", false, "fail when identifier values repeat")
	fs.StringP("output", "o", DefaultOutputDir, "output directory")
	fs.Bool("manifest", false, "write a run manifest (YAML) into the output directory")
	fs.String("log-level", DefaultLogLevel, "log level: debug, info, warn, error")
	fs.String("log-format", DefaultLogFormat, "log format: text or json")
	fs.String("delimiter", DefaultDelimiter, "field delimiter for .csv data files")
	fs.String("converter", "", "LibreOffice executable used for PDF conversion")
	fs.Bool("validate-pdf", true, "validate each generated PDF")
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default values.
const (
	DefaultOutputDir = "output"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultDelimiter = ","
	DefaultFileName  = "mailmerge"
	EnvPrefix        = "MAILMERGE"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("word", "")
	v.SetDefault("excel", "")
	v.SetDefault("sheet", "")
	v.SetDefault("foldered", false)
	v.SetDefault("cleanup", false)
	v.SetDefault("manual", false)
	v.SetDefault("id_column", "")
	v.SetDefault("strict_ids", false)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("manifest", false)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("csv.delimiter", DefaultDelimiter)
	v.SetDefault("converter.binary", "")
	v.SetDefault("converter.validate", true)
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load resolves the configuration.
//
// PARAMETERS:
//   - cfgFile: An explicit configuration file, or "" to look for
//     ./mailmerge.yaml (optional).
//   - flags: The parsed flag set, or nil. Flags must have been defined with
//     RegisterFlags.
//
// RETURNS:
//   - The resolved Config.
//   - An error if an explicit config file cannot be read, or a value is invalid.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks values that have a fixed set of options.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q: want debug, info, warn or error", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format %q: want text or json", c.LogFormat)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	return nil
}
