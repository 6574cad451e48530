// =============================================================================
// fac2csv - Conversion Orchestrator
// =============================================================================
//
// Drives a batch of invoice XML files through validation, parsing and output
// generation. One bad file never aborts the batch: every input produces a
// Result, successful or failed, and the outputs are built from whatever
// parsed cleanly.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/xmlpath.v2"

	"github.com/zentratek/zentratek-fac2csv/internal/config"
	"github.com/zentratek/zentratek-fac2csv/internal/csvwriter"
	"github.com/zentratek/zentratek-fac2csv/internal/invoice"
	"github.com/zentratek/zentratek-fac2csv/internal/ublparser"
	"github.com/zentratek/zentratek-fac2csv/internal/validation"
	"github.com/zentratek/zentratek-fac2csv/internal/xlsxwriter"
	"github.com/zentratek/zentratek-fac2csv/pkg/utils"
)

// Result captures the outcome of processing a single input file.
type Result struct {
	FilePath string
	Record   *invoice.Record
	Success  bool
	Error    error
	Elapsed  time.Duration
}

// Failure is the reportable form of a failed Result.
type Failure struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// Outputs lists the files generated for a batch.
type Outputs struct {
	SummaryCSV string `json:"summary_csv"`
	DetailCSV  string `json:"detail_csv"`
	XLSX       string `json:"xlsx,omitempty"`
	Archive    string `json:"archive"`
}

// Converter processes invoice files according to the loaded configuration.
type Converter struct {
	cfg *config.Config
	log *logrus.Logger
}

// New creates a Converter.
func New(cfg *config.Config, log *logrus.Logger) *Converter {
	return &Converter{cfg: cfg, log: log}
}

// ProcessFile validates and parses a single XML file.
func (c *Converter) ProcessFile(path string) Result {
	start := time.Now()

	rec, err := c.parseFile(path)
	result := Result{
		FilePath: path,
		Record:   rec,
		Success:  err == nil,
		Error:    err,
		Elapsed:  time.Since(start),
	}

	if err != nil {
		c.log.WithFields(logrus.Fields{
			"file":  path,
			"error": err,
		}).Warn("Failed to process file")
	}

	return result
}

func (c *Converter) parseFile(path string) (*invoice.Record, error) {
	if err := validation.ValidateFile(path, c.cfg.MaxFileSizeBytes()); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := xmlpath.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML in %s: %w", path, err)
	}

	return ublparser.ParseInvoice(doc, filepath.Base(path))
}

// ProcessBatch processes every file concurrently, bounded by the configured
// worker limit. Results come back in input order regardless of completion
// order.
func (c *Converter) ProcessBatch(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.MaxConcurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{FilePath: path, Error: err}
				return nil
			}
			results[i] = c.ProcessFile(path)
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	return results
}

// SplitResults separates a batch into parsed records and reportable
// failures, both in input order.
func SplitResults(results []Result) ([]*invoice.Record, []Failure) {
	ok := lo.Filter(results, func(r Result, _ int) bool { return r.Success })
	bad := lo.Filter(results, func(r Result, _ int) bool { return !r.Success })

	records := lo.Map(ok, func(r Result, _ int) *invoice.Record { return r.Record })
	failures := lo.Map(bad, func(r Result, _ int) Failure {
		return Failure{Source: filepath.Base(r.FilePath), Message: r.Error.Error()}
	})

	return records, failures
}

// GenerateOutputs writes the summary and detail CSVs, the optional XLSX
// workbook and a zip bundling everything, all under the output directory
// with a shared timestamp.
func (c *Converter) GenerateOutputs(records []*invoice.Record) (*Outputs, error) {
	ts := time.Now().Format("20060102_150405")
	out := &Outputs{
		SummaryCSV: filepath.Join(c.cfg.OutputDir, fmt.Sprintf("facturas_resumen_%s.csv", ts)),
		DetailCSV:  filepath.Join(c.cfg.OutputDir, fmt.Sprintf("facturas_detalle_%s.csv", ts)),
	}

	if err := csvwriter.WriteSummary(records, out.SummaryCSV); err != nil {
		return nil, err
	}
	if err := csvwriter.WriteDetail(records, out.DetailCSV); err != nil {
		return nil, err
	}

	bundled := []string{out.SummaryCSV, out.DetailCSV}

	if c.cfg.ExportXLSX {
		out.XLSX = filepath.Join(c.cfg.OutputDir, fmt.Sprintf("facturas_%s.xlsx", ts))
		if err := xlsxwriter.WriteWorkbook(records, out.XLSX); err != nil {
			return nil, err
		}
		bundled = append(bundled, out.XLSX)
	}

	out.Archive = filepath.Join(c.cfg.OutputDir, fmt.Sprintf("facturas_%s.zip", ts))
	if err := utils.CreateZipArchive(bundled, out.Archive); err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"records": len(records),
		"archive": out.Archive,
	}).Info("Batch outputs generated")

	return out, nil
}

// ExpandInputs turns a mixed list of .xml and .zip paths into a flat list of
// XML files, extracting archives into workDir.
func (c *Converter) ExpandInputs(paths []string, workDir string) ([]string, error) {
	var expanded []string
	for _, path := range paths {
		if strings.EqualFold(filepath.Ext(path), ".zip") {
			xmls, err := utils.ExtractXMLFromZip(path, workDir)
			if err != nil {
				return nil, err
			}
			expanded = append(expanded, xmls...)
			continue
		}
		expanded = append(expanded, path)
	}
	return expanded, nil
}
