// =============================================================================
// Mail Merge - File Manager Utility
// =============================================================================
//
// This module provides the file operations shared by the front-end, the
// output planner and the render pipeline:
//   - Input discovery (auto-detection of the template and data file)
//   - Output directory management (lazy, idempotent creation)
//   - Intermediate file removal
//   - Run manifest generation
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for a merge run.
type FileManager struct {
	// WorkDir is the directory scanned for inputs when none are given.
	WorkDir string

	// OutputDir is the root of all generated documents.
	OutputDir string
}

// NewFileManager creates a new FileManager.
func NewFileManager(workDir, outputDir string) *FileManager {
	return &FileManager{
		WorkDir:   workDir,
		OutputDir: outputDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureOutputDir creates the output root if it does not exist.
//
// RETURNS:
//   - true if the directory was created by this call.
//   - An error if the directory cannot be created.
func (fm *FileManager) EnsureOutputDir() (bool, error) {
	return fm.EnsureDir(fm.OutputDir)
}

// EnsureDir creates dir (and parents) if it does not exist. An existing
// directory is left untouched.
//
// RETURNS:
//   - true if the directory was created by this call.
//   - An error if dir exists but is not a directory, or cannot be created.
func (fm *FileManager) EnsureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("%s exists and is not a directory", dir)
		}
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return true, nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the files in WorkDir with the given extension,
// sorted by name. Office lock files ("~$letter.docx") and directories are
// skipped. The scan is not recursive.
//
// PARAMETERS:
//   - extension: The extension to match, e.g. ".docx". Case-insensitive.
//
// RETURNS:
//   - A slice of file names relative to WorkDir.
//   - An error if the directory cannot be read.
func (fm *FileManager) DiscoverInputFiles(extension string) ([]string, error) {
	dir := fm.WorkDir
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", dir, err)
	}

	var result []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), extension) {
			result = append(result, name)
		}
	}

	sort.Strings(result)
	return result, nil
}

// InputPath resolves a discovered name against WorkDir.
func (fm *FileManager) InputPath(name string) string {
	if fm.WorkDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(fm.WorkDir, name)
}

// =============================================================================
// FILE REMOVAL
// =============================================================================

// RemoveFile deletes a single file.
func RemoveFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// =============================================================================
// RUN MANIFEST
// =============================================================================

// RunManifest is the YAML record of one merge run.
type RunManifest struct {
	RunID      string           `yaml:"run_id"`
	StartTime  time.Time        `yaml:"start_time"`
	EndTime    time.Time        `yaml:"end_time"`
	Template   string           `yaml:"template"`
	DataFile   string           `yaml:"data_file"`
	IDColumn   string           `yaml:"id_column,omitempty"`
	Foldered   bool             `yaml:"foldered"`
	Cleanup    bool             `yaml:"cleanup"`
	Records    int              `yaml:"records"`
	Documents  []ManifestRecord `yaml:"documents"`
	Warnings   []string         `yaml:"warnings,omitempty"`
	Error      string           `yaml:"error,omitempty"`
	Successful bool             `yaml:"successful"`
}

// ManifestRecord describes the output of one record.
type ManifestRecord struct {
	Index        int    `yaml:"index"`
	Identifier   string `yaml:"identifier"`
	Final        string `yaml:"final"`
	Intermediate string `yaml:"intermediate,omitempty"`
	Pages        int    `yaml:"pages,omitempty"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// WriteRunManifest writes the manifest as run_<timestamp>.yaml in outputDir.
//
// PARAMETERS:
//   - manifest: The run manifest.
//   - outputDir: The directory to write the file into. It must exist.
//
// RETURNS:
//   - The path to the manifest file.
//   - An error if encoding or writing fails.
func WriteRunManifest(manifest RunManifest, outputDir string) (string, error) {
	if manifest.RunID == "" {
		manifest.RunID = NewRunID()
	}

	ts := manifest.StartTime
	if ts.IsZero() {
		ts = time.Now()
	}
	name := fmt.Sprintf("run_%s.yaml", ts.Format("20060102_150405"))
	path := filepath.Join(outputDir, name)

	data, err := yaml.Marshal(&manifest)
	if err != nil {
		return "", fmt.Errorf("failed to encode run manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run manifest: %w", err)
	}
	return path, nil
}

// ReadRunManifest loads a manifest written by WriteRunManifest.
func ReadRunManifest(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run manifest: %w", err)
	}
	var m RunManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse run manifest: %w", err)
	}
	return &m, nil
}
