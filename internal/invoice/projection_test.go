// =============================================================================
// fac2csv - Tabular Projection Tests
// =============================================================================

package invoice

import (
	"errors"
	"testing"
)

func recordWithLines(source string, lineCount int) *Record {
	rec := NewRecord(source)
	rec.Fields[FieldNumeroFactura] = source
	rec.Fields[FieldTotalPagar] = "100"
	for i := 0; i < lineCount; i++ {
		rec.Lines = append(rec.Lines, LineItem{Fields: map[string]string{
			FieldLineaNumero: "1",
			FieldLineaTotal:  "50",
		}})
	}
	return rec
}

func TestBuildSummaryRows(t *testing.T) {
	records := []*Record{
		recordWithLines("F-1", 2),
		recordWithLines("F-2", 0),
	}

	rows, err := BuildSummaryRows(records)
	if err != nil {
		t.Fatalf("BuildSummaryRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if len(row) != len(SummaryColumns) {
			t.Errorf("row has %d cells, want %d", len(row), len(SummaryColumns))
		}
	}
	if rows[0][0] != "F-1" || rows[1][0] != "F-2" {
		t.Errorf("batch order not preserved: %q, %q", rows[0][0], rows[1][0])
	}

	// Monetary columns are canonicalized, missing ones default to zero.
	last := rows[0][len(rows[0])-1]
	if last != "100.00" {
		t.Errorf("total_pagar cell = %q, want 100.00", last)
	}
	if rows[0][16] != "0.00" {
		t.Errorf("missing subtotal cell = %q, want 0.00", rows[0][16])
	}

	// Missing non-monetary fields render as empty strings.
	if rows[0][1] != "" {
		t.Errorf("missing prefijo cell = %q, want empty", rows[0][1])
	}
}

func TestBuildDetailRowsCounts(t *testing.T) {
	records := []*Record{
		recordWithLines("F-1", 0),
		recordWithLines("F-2", 2),
		recordWithLines("F-3", 1),
		recordWithLines("F-4", 0),
	}

	rows, err := BuildDetailRows(records)
	if err != nil {
		t.Fatalf("BuildDetailRows: %v", err)
	}

	// Sum of max(1, lines) per invoice: 1 + 2 + 1 + 1.
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}

	width := len(SummaryColumns) + len(LineColumns)
	for _, row := range rows {
		if len(row) != width {
			t.Errorf("row has %d cells, want %d", len(row), width)
		}
	}

	// A lineless invoice keeps its line-level cells blank, not zeroed.
	blank := rows[0][len(SummaryColumns):]
	for i, cell := range blank {
		if cell != "" {
			t.Errorf("blank line cell %d = %q, want empty", i, cell)
		}
	}

	// A real line carries normalized values.
	lineTotal := rows[1][width-1]
	if lineTotal != "50.00" {
		t.Errorf("linea_total cell = %q, want 50.00", lineTotal)
	}
}

func TestBuildRowsEmptyBatch(t *testing.T) {
	var gerr *GenerationError

	if _, err := BuildSummaryRows(nil); !errors.As(err, &gerr) {
		t.Errorf("BuildSummaryRows(nil) error = %v, want *GenerationError", err)
	}
	if _, err := BuildDetailRows(nil); !errors.As(err, &gerr) {
		t.Errorf("BuildDetailRows(nil) error = %v, want *GenerationError", err)
	}
}

func TestHeaders(t *testing.T) {
	summary := SummaryHeader()
	if len(summary) != 23 {
		t.Fatalf("summary header has %d columns, want 23", len(summary))
	}
	if summary[0] != FieldNumeroFactura || summary[22] != FieldTotalPagar {
		t.Errorf("summary header order wrong: first %q, last %q", summary[0], summary[22])
	}

	detail := DetailHeader()
	if len(detail) != 29 {
		t.Fatalf("detail header has %d columns, want 29", len(detail))
	}
	if detail[23] != FieldLineaNumero || detail[28] != FieldLineaTotal {
		t.Errorf("detail header order wrong: %q ... %q", detail[23], detail[28])
	}
}

func TestMergeDoesNotOverwrite(t *testing.T) {
	rec := NewRecord("f.xml")
	rec.Merge(map[string]string{FieldNumeroFactura: "first"})
	rec.Merge(map[string]string{FieldNumeroFactura: "second", FieldPrefijo: "P"})

	if rec.Fields[FieldNumeroFactura] != "first" {
		t.Errorf("numero_factura = %q, want first", rec.Fields[FieldNumeroFactura])
	}
	if rec.Fields[FieldPrefijo] != "P" {
		t.Errorf("prefijo = %q, want P", rec.Fields[FieldPrefijo])
	}
}
