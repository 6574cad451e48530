// =============================================================================
// fac2csv - Serve Command
// =============================================================================
//
// Runs the HTTP server. A background ticker sweeps the upload and output
// directories on an interval, deleting files older than the configured
// retention window so unattended deployments do not fill their disks.
//
// =============================================================================

package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zentratek/zentratek-fac2csv/internal/config"
	"github.com/zentratek/zentratek-fac2csv/internal/converter"
	"github.com/zentratek/zentratek-fac2csv/internal/server"
	"github.com/zentratek/zentratek-fac2csv/pkg/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the conversion pipeline over HTTP",
	Long: `Serve starts an HTTP server with three endpoints: POST /upload accepts
invoice XML and zip files and runs a conversion batch, GET /download/:filename
serves the generated outputs and GET /health reports liveness.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	conv := converter.New(cfg, log)
	srv := server.New(cfg, conv, log)

	go cleanupLoop(cfg, log)

	return srv.Run()
}

// cleanupLoop periodically removes stale files from the managed directories.
func cleanupLoop(cfg *config.Config, log *logrus.Logger) {
	ticker := time.NewTicker(cfg.CleanupMaxAge())
	defer ticker.Stop()

	for range ticker.C {
		for _, dir := range []string{cfg.UploadDir, cfg.OutputDir} {
			removed, err := utils.CleanupOldFiles(dir, cfg.CleanupMaxAge())
			if err != nil {
				log.WithField("dir", dir).WithError(err).Warn("Cleanup sweep failed")
				continue
			}
			if removed > 0 {
				log.WithFields(logrus.Fields{
					"dir":     dir,
					"removed": removed,
				}).Info("Removed stale files")
			}
		}
	}
}
