// =============================================================================
// fac2csv - Main Entry Point
// =============================================================================
//
// This is the main entry point for the DIAN XML to CSV converter.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   fac2csv process       - Convert XML/ZIP invoices from the input directory
//   fac2csv serve         - Start the HTTP upload service
//   fac2csv version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/zentratek/zentratek-fac2csv/cmd"
)

func main() {
	cmd.Execute()
}
