// =============================================================================
// fac2csv - CSV Writer
// =============================================================================
//
// Writes the summary and detail projections as UTF-8 CSV files. Every field
// is quoted unconditionally and the file opens with a byte-order mark, both
// required for spreadsheet tools that guess encodings and separators from
// the first bytes of the file.
//
// =============================================================================

package csvwriter

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zentratek/zentratek-fac2csv/internal/invoice"
)

// utf8BOM marks the file as UTF-8 for Excel and friends.
const utf8BOM = "\xEF\xBB\xBF"

var log = logrus.StandardLogger()

// SetLogger replaces the package logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// WriteSummary writes one row per invoice record to path.
func WriteSummary(records []*invoice.Record, path string) error {
	rows, err := invoice.BuildSummaryRows(records)
	if err != nil {
		return err
	}
	return writeFile(path, invoice.SummaryHeader(), rows)
}

// WriteDetail writes one row per invoice line to path. Invoices without
// lines still contribute one row with the line columns blank.
func WriteDetail(records []*invoice.Record, path string) error {
	rows, err := invoice.BuildDetailRows(records)
	if err != nil {
		return err
	}
	return writeFile(path, invoice.DetailHeader(), rows)
}

func writeFile(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	writeRow(&buf, header)
	for _, row := range rows {
		writeRow(&buf, row)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write CSV file %s: %w", path, err)
	}

	log.WithFields(logrus.Fields{
		"path": path,
		"rows": len(rows),
	}).Info("CSV file written")

	return nil
}

// writeRow emits a record with every field quoted, doubling any embedded
// quotes, terminated by CRLF.
func writeRow(buf *bytes.Buffer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString("\r\n")
}
