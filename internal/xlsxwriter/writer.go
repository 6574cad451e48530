// =============================================================================
// fac2csv - XLSX Writer
// =============================================================================
//
// Optional Excel export. One workbook with a "Resumen" sheet mirroring the
// summary CSV and a "Detalle" sheet mirroring the detail CSV, so the two
// projections travel together in a single file.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/zentratek/zentratek-fac2csv/internal/invoice"
)

const (
	summarySheet = "Resumen"
	detailSheet  = "Detalle"
)

// WriteWorkbook writes both projections of the batch to a single .xlsx file.
func WriteWorkbook(records []*invoice.Record, path string) error {
	summaryRows, err := invoice.BuildSummaryRows(records)
	if err != nil {
		return err
	}
	detailRows, err := invoice.BuildDetailRows(records)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name sheet %s: %w", summarySheet, err)
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", detailSheet, err)
	}

	if err := fillSheet(f, summarySheet, invoice.SummaryHeader(), summaryRows); err != nil {
		return err
	}
	if err := fillSheet(f, detailSheet, invoice.DetailHeader(), detailRows); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write XLSX file %s: %w", path, err)
	}

	return nil
}

func fillSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, fields []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d on %s: %w", row, sheet, err)
	}
	// Values stay strings on purpose: identifiers like NITs and invoice
	// numbers must not lose leading zeros to numeric coercion.
	if err := f.SetSheetRow(sheet, cell, &fields); err != nil {
		return fmt.Errorf("failed to write row %d on %s: %w", row, sheet, err)
	}
	return nil
}
