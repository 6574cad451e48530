// =============================================================================
// fac2csv - Invoice Record Types
// =============================================================================
//
// This package defines the in-memory representation of an extracted DIAN
// invoice and the shared tabular schema consumed by every projection.
//
// A Record is built in one pass per source document, held in memory for the
// duration of a batch, and consumed once by the projections. Records are
// never persisted or mutated after extraction.
//
// =============================================================================

package invoice

// =============================================================================
// FIELD NAMES
// =============================================================================
// Column names are fixed by the output contract (Spanish, consumed by
// spreadsheet users). Section extractors and projections share these
// constants so the schema cannot drift between writers.

const (
	FieldNumeroFactura       = "numero_factura"
	FieldPrefijo             = "prefijo"
	FieldCUFE                = "cufe"
	FieldFechaEmision        = "fecha_emision"
	FieldHoraEmision         = "hora_emision"
	FieldFechaVencimiento    = "fecha_vencimiento"
	FieldPeriodoInicio       = "periodo_inicio"
	FieldPeriodoFin          = "periodo_fin"
	FieldClienteNombre       = "cliente_nombre"
	FieldClienteNIT          = "cliente_nit"
	FieldClienteDireccion    = "cliente_direccion"
	FieldClienteCodigoPostal = "cliente_codigo_postal"
	FieldClienteMunicipio    = "cliente_municipio"
	FieldEmisorNombre        = "emisor_nombre"
	FieldEmisorNIT           = "emisor_nit"
	FieldEmisorDireccion     = "emisor_direccion"
	FieldSubtotal            = "subtotal"
	FieldIVAPorcentaje       = "iva_porcentaje"
	FieldIVAMonto            = "iva_monto"
	FieldImpConsumoVoz       = "imp_consumo_voz"
	FieldImpConsumoDatos     = "imp_consumo_datos"
	FieldDescuentosTotales   = "descuentos_totales"
	FieldTotalPagar          = "total_pagar"

	FieldLineaNumero              = "linea_numero"
	FieldLineaDescripcion         = "linea_descripcion"
	FieldLineaCantidad            = "linea_cantidad"
	FieldLineaPrecioUnitario      = "linea_precio_unitario"
	FieldLineaDescuentoPorcentaje = "linea_descuento_porcentaje"
	FieldLineaTotal               = "linea_total"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// Record represents one extracted invoice.
//
// Fields holds the invoice-level values keyed by column name. A Record always
// exists even when every field is empty: extraction never fails solely
// because optional fields are missing. Values are stored as raw text;
// monetary canonicalization happens at projection time.
type Record struct {
	// Source identifies the document this record was extracted from.
	// Used in logs and per-document error reports, never projected.
	Source string

	// Fields contains invoice-level values keyed by column name.
	// Missing keys project as empty strings.
	Fields map[string]string

	// Lines contains the invoice line items in document order.
	Lines []LineItem
}

// LineItem represents a single invoice line.
type LineItem struct {
	// Fields contains line-level values keyed by column name.
	Fields map[string]string
}

// NewRecord creates an empty Record for the given source document.
func NewRecord(source string) *Record {
	return &Record{
		Source: source,
		Fields: make(map[string]string),
	}
}

// Merge copies a partial section result into the record. Section field names
// are disjoint, so later sections never overwrite earlier keys.
func (r *Record) Merge(section map[string]string) {
	for k, v := range section {
		if _, exists := r.Fields[k]; !exists {
			r.Fields[k] = v
		}
	}
}

// NumeroFactura returns the invoice number, for logging.
func (r *Record) NumeroFactura() string {
	return r.Fields[FieldNumeroFactura]
}

// =============================================================================
// COLUMN SCHEMA
// =============================================================================

// Column describes one output column. Monetary columns are passed through the
// amount normalizer at projection time.
type Column struct {
	Name     string
	Monetary bool
}

// SummaryColumns is the fixed ordered set of invoice-level columns shared by
// the summary and detail projections.
var SummaryColumns = []Column{
	{Name: FieldNumeroFactura},
	{Name: FieldPrefijo},
	{Name: FieldCUFE},
	{Name: FieldFechaEmision},
	{Name: FieldHoraEmision},
	{Name: FieldFechaVencimiento},
	{Name: FieldPeriodoInicio},
	{Name: FieldPeriodoFin},
	{Name: FieldClienteNombre},
	{Name: FieldClienteNIT},
	{Name: FieldClienteDireccion},
	{Name: FieldClienteCodigoPostal},
	{Name: FieldClienteMunicipio},
	{Name: FieldEmisorNombre},
	{Name: FieldEmisorNIT},
	{Name: FieldEmisorDireccion},
	{Name: FieldSubtotal, Monetary: true},
	{Name: FieldIVAPorcentaje, Monetary: true},
	{Name: FieldIVAMonto, Monetary: true},
	{Name: FieldImpConsumoVoz, Monetary: true},
	{Name: FieldImpConsumoDatos, Monetary: true},
	{Name: FieldDescuentosTotales, Monetary: true},
	{Name: FieldTotalPagar, Monetary: true},
}

// LineColumns is the fixed ordered set of line-level columns appended to the
// invoice-level columns in the detail projection.
var LineColumns = []Column{
	{Name: FieldLineaNumero},
	{Name: FieldLineaDescripcion},
	{Name: FieldLineaCantidad, Monetary: true},
	{Name: FieldLineaPrecioUnitario, Monetary: true},
	{Name: FieldLineaDescuentoPorcentaje, Monetary: true},
	{Name: FieldLineaTotal, Monetary: true},
}

// SummaryHeader returns the summary column names in declared order.
func SummaryHeader() []string {
	return columnNames(SummaryColumns)
}

// DetailHeader returns the detail column names: the invoice-level columns
// followed by the line-level columns.
func DetailHeader() []string {
	return append(columnNames(SummaryColumns), columnNames(LineColumns)...)
}

func columnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
