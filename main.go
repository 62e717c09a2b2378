// =============================================================================
// Mail Merge - Main Entry Point
// =============================================================================
//
// This is the main entry point for the mail merge CLI. It delegates to the
// Cobra commands in the cmd package.
//
// USAGE:
//   mailmerge [flags]          - Render and convert one document per record
//   mailmerge inspect <file>   - Show columns and identifier candidates
//   mailmerge version          - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : loading, naming, rendering, conversion and the pipeline
//   - pkg/       : shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/mailmerge/cmd"
)

func main() {
	cmd.Execute()
}
