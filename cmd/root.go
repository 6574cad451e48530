// =============================================================================
// fac2csv - Root Command
// =============================================================================
//
// Root of the Cobra CLI. Global flags and the shared configuration and
// logging setup live here; the subcommands call loadConfig to get both.
//
//   rootCmd (fac2csv)
//   ├── processCmd (fac2csv process)
//   ├── serveCmd   (fac2csv serve)
//   └── versionCmd (fac2csv version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zentratek/zentratek-fac2csv/internal/config"
)

// cfgFile holds the path to the configuration file, set via --config.
var cfgFile string

// verbose enables debug logging when set.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "fac2csv",
	Short: "Convert DIAN electronic invoices (UBL 2.1 XML) to CSV",
	Long: `fac2csv extracts the fields of Colombian DIAN electronic invoices from
their UBL 2.1 XML representation and writes two CSV projections: a summary
with one row per invoice and a detail with one row per invoice line.

Inputs can be bare XML files or zip archives containing them; both the
Invoice root and the AttachedDocument wrapper used by DIAN are supported.

Example Usage:
  fac2csv process                      # Process all files in the input directory
  fac2csv process factura.xml lote.zip # Process specific files
  fac2csv serve                        # Expose the pipeline over HTTP`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig reads the configuration, prepares the working directories and
// builds a logger honoring both the configured level and the --verbose flag.
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, nil, err
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	return cfg, log, nil
}
