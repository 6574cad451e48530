// =============================================================================
// fac2csv - HTTP Server
// =============================================================================

// Package server exposes the conversion pipeline over HTTP: a multipart
// upload endpoint that runs a full batch, a download endpoint for the
// generated files and a health probe. The API is stateless; every upload is
// an independent batch and the response carries everything the client needs
// to fetch its outputs.
package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/zentratek/zentratek-fac2csv/internal/config"
	"github.com/zentratek/zentratek-fac2csv/internal/converter"
	"github.com/zentratek/zentratek-fac2csv/internal/validation"
	"github.com/zentratek/zentratek-fac2csv/pkg/utils"
)

// Server wires the HTTP routes to the conversion pipeline.
type Server struct {
	cfg    *config.Config
	conv   *converter.Converter
	log    *logrus.Logger
	router *gin.Engine
}

// New builds the server and its routes.
func New(cfg *config.Config, conv *converter.Converter, log *logrus.Logger) *Server {
	s := &Server{cfg: cfg, conv: conv, log: log}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))
	router.MaxMultipartMemory = cfg.MaxFileSizeBytes()

	router.POST("/upload", s.handleUpload)
	router.GET("/download/:filename", s.handleDownload)
	router.GET("/health", s.handleHealth)

	s.router = router
	return s
}

// Run starts the HTTP server on the configured address and blocks.
func (s *Server) Run() error {
	addr := s.cfg.ServerAddr()
	s.log.WithField("addr", addr).Info("HTTP server listening")
	return s.router.Run(addr)
}

// Router exposes the gin engine, used by the handler tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	if lo.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Info("Request handled")
	}
}

// handleUpload receives one or more .xml or .zip files under the "files"
// multipart field, processes the batch and reports the generated outputs
// together with any per-file failures.
func (s *Server) handleUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	files := form.File["files"]
	if err := validation.ValidateFilesCount(len(files), s.cfg.MaxFiles); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var stored []string
	for _, fh := range files {
		if err := validation.ValidateExtension(fh.Filename); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if fh.Size > s.cfg.MaxFileSizeBytes() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("file %s exceeds the %d MB limit", fh.Filename, s.cfg.MaxFileSizeMB),
			})
			return
		}

		name := uuid.NewString() + "_" + utils.SanitizeFilename(fh.Filename)
		dst := filepath.Join(s.cfg.UploadDir, name)
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			s.log.WithField("file", fh.Filename).WithError(err).Error("Failed to store upload")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store uploaded file"})
			return
		}
		stored = append(stored, dst)
	}

	inputs, err := s.conv.ExpandInputs(stored, s.cfg.UploadDir)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := s.conv.ProcessBatch(c.Request.Context(), inputs)
	records, failures := converter.SplitResults(results)

	if len(records) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "no se pudo procesar ninguna factura",
			"failures": failures,
		})
		return
	}

	outputs, err := s.conv.GenerateOutputs(records)
	if err != nil {
		s.log.WithError(err).Error("Failed to generate outputs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate output files"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"processed": len(records),
		"failed":    len(failures),
		"failures":  failures,
		"outputs": gin.H{
			"summary_csv": filepath.Base(outputs.SummaryCSV),
			"detail_csv":  filepath.Base(outputs.DetailCSV),
			"xlsx":        baseOrEmpty(outputs.XLSX),
			"archive":     filepath.Base(outputs.Archive),
		},
	})
}

func baseOrEmpty(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

// handleDownload serves a generated file from the output directory as an
// attachment. The filename is sanitized so the lookup cannot leave the
// output directory.
func (s *Server) handleDownload(c *gin.Context) {
	name := utils.SanitizeFilename(c.Param("filename"))
	path := filepath.Join(s.cfg.OutputDir, name)

	if !utils.FileExists(path) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	c.FileAttachment(path, name)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
