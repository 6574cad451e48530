// =============================================================================
// fac2csv - Process Command
// =============================================================================
//
// Batch conversion from the command line. With no arguments it discovers
// every .xml and .zip file in the configured input directory; with
// arguments it processes exactly the files named. Zip archives are expanded
// before processing and outputs land in the output directory.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zentratek/zentratek-fac2csv/internal/converter"
)

var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Convert invoice XML files to CSV",
	Long: `Process converts DIAN invoice XML files to the summary and detail CSV
projections. Files can be given as arguments or discovered from the input
directory; .zip archives are expanded automatically.`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		inputs, err = discoverInputs(cfg.InputDir)
		if err != nil {
			return err
		}
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no .xml or .zip files found in %s", cfg.InputDir)
	}

	conv := converter.New(cfg, log)

	files, err := conv.ExpandInputs(inputs, cfg.UploadDir)
	if err != nil {
		return err
	}

	fmt.Printf("Processing %d file(s)...\n\n", len(files))

	results := conv.ProcessBatch(cmd.Context(), files)
	records, failures := converter.SplitResults(results)

	for _, r := range results {
		if r.Success {
			fmt.Printf("  ✓ %s (%s, %d lines)\n",
				filepath.Base(r.FilePath), r.Elapsed.Round(time.Millisecond), len(r.Record.Lines))
		} else {
			fmt.Printf("  ✗ %s: %v\n", filepath.Base(r.FilePath), r.Error)
		}
	}

	fmt.Printf("\nProcessed: %d succeeded, %d failed\n", len(records), len(failures))

	if len(records) == 0 {
		os.Exit(1)
	}

	outputs, err := conv.GenerateOutputs(records)
	if err != nil {
		return err
	}

	fmt.Printf("\nOutput files:\n")
	fmt.Printf("  %s\n", outputs.SummaryCSV)
	fmt.Printf("  %s\n", outputs.DetailCSV)
	if outputs.XLSX != "" {
		fmt.Printf("  %s\n", outputs.XLSX)
	}
	fmt.Printf("  %s\n", outputs.Archive)

	return nil
}

// discoverInputs lists the .xml and .zip files directly under dir.
func discoverInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", dir, err)
	}

	var inputs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".xml", ".zip":
			inputs = append(inputs, filepath.Join(dir, entry.Name()))
		}
	}
	return inputs, nil
}
