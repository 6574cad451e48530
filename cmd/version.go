// =============================================================================
// fac2csv - Version Command
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version and BuildDate are set at build time via -ldflags.
var (
	Version   = "dev"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fac2csv %s (built %s)\n", Version, BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
