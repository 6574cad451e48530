// =============================================================================
// fac2csv - Tabular Projections
// =============================================================================
//
// Two independent projections over a batch of Records:
//
//   Summary: exactly one row per invoice, the 23 invoice-level columns.
//   Detail:  one row per line item (or one blank-line row for invoices
//            without lines), the 23 invoice-level columns followed by the
//            6 line-level columns.
//
// Monetary columns are canonicalized here, at projection time, so the same
// record could in principle back differently-formatted projections. Missing
// keys render as empty strings, never as omitted columns. Both projections
// preserve batch order and require a non-empty batch.
//
// =============================================================================

package invoice

import (
	"fmt"

	"github.com/zentratek/zentratek-fac2csv/internal/amount"
)

// GenerationError reports a projection that cannot be computed, such as an
// empty batch. A batch that fails here produces no partial output.
type GenerationError struct {
	Msg string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("projection error: %s", e.Msg)
}

// BuildSummaryRows flattens a batch into one row per invoice, columns in
// SummaryColumns order.
func BuildSummaryRows(records []*Record) ([][]string, error) {
	if len(records) == 0 {
		return nil, &GenerationError{Msg: "no invoices to process"}
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, projectFields(rec.Fields, SummaryColumns))
	}

	return rows, nil
}

// BuildDetailRows flattens a batch into one row per line item. An invoice
// without line items still contributes exactly one row with the line-level
// columns blank, so the row count is the sum of max(1, lines) per invoice.
func BuildDetailRows(records []*Record) ([][]string, error) {
	if len(records) == 0 {
		return nil, &GenerationError{Msg: "no invoices to process"}
	}

	var rows [][]string
	for _, rec := range records {
		invoiceCells := projectFields(rec.Fields, SummaryColumns)

		if len(rec.Lines) == 0 {
			row := append(append([]string{}, invoiceCells...), make([]string, len(LineColumns))...)
			rows = append(rows, row)
			continue
		}

		for _, line := range rec.Lines {
			row := append(append([]string{}, invoiceCells...), projectFields(line.Fields, LineColumns)...)
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// projectFields renders one field map against an ordered column list,
// normalizing monetary columns and defaulting missing keys to "".
func projectFields(fields map[string]string, cols []Column) []string {
	cells := make([]string, len(cols))
	for i, col := range cols {
		value := fields[col.Name]
		if col.Monetary {
			value = amount.Normalize(value)
		}
		cells[i] = value
	}
	return cells
}
