// =============================================================================
// fac2csv - DIAN Invoice Parser
// =============================================================================
//
// Section extractors for the DIAN UBL 2.1 invoice profile. Each extractor
// receives the unwrapped Invoice root and returns a partial record keyed by
// output column name; ParseInvoice runs them all and assembles the Record.
//
// Extractors are total: a missing node at any depth resolves to the section
// default and never aborts extraction. Only unwrapping can fail, and a
// failure there is fatal for that document only.
//
// =============================================================================

package ublparser

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/xmlpath.v2"

	"github.com/zentratek/zentratek-fac2csv/internal/invoice"
)

var log = logrus.StandardLogger()

// SetLogger replaces the package logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// ParseError reports a document that could not be unwrapped to an Invoice
// root. It is fatal for the document it names and for that document only.
type ParseError struct {
	Source string
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s in %s: %v", e.Msg, e.Source, e.Err)
	}
	return fmt.Sprintf("%s in %s", e.Msg, e.Source)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// vatSchemeID is the DIAN tax-scheme code for IVA (value-added tax).
const vatSchemeID = "01"

// =============================================================================
// PATH EXPRESSIONS
// =============================================================================
// Fallback chains are declared as data and compiled once. The layout mirrors
// the document: general header fields, party anchors with per-party chains,
// monetary totals, tax subtotals and invoice lines.
//
// Anchors that enumerate nodes anywhere in the document use "//" paths;
// every chain resolved against an anchor node uses relative child paths,
// because a "//" expression would escape the anchor and read the first
// match in the whole document.

var (
	numeroFacturaChain = FirstOf(At("ID"))

	// The corporate-registration scheme carrying the invoice prefix hangs
	// off the supplier's tax scheme or its legal entity depending on the
	// emitting software; both locations are chain candidates.
	prefijoChain = FirstOf(
		At("AccountingSupplierParty/Party/PartyTaxScheme/CorporateRegistrationScheme/ID"),
		At("AccountingSupplierParty/Party/PartyLegalEntity/CorporateRegistrationScheme/ID"),
	)

	// CUFE: prefer the scheme-qualified attribute on the UUID node, fall
	// back to the UUID's own text when the attribute is absent.
	cufeChain = FirstOf(At("UUID/@schemeName"), At("UUID"))

	fechaEmisionChain     = FirstOf(At("IssueDate"))
	horaEmisionChain      = FirstOf(At("IssueTime"))
	fechaVencimientoChain = FirstOf(At("DueDate"))
	periodoInicioChain    = FirstOf(At("InvoicePeriod/StartDate"))
	periodoFinChain       = FirstOf(At("InvoicePeriod/EndDate"))

	customerPartyPath = xmlpath.MustCompile("//AccountingCustomerParty/Party")
	supplierPartyPath = xmlpath.MustCompile("//AccountingSupplierParty/Party")
	partyAddressPath  = xmlpath.MustCompile("PhysicalLocation/Address")

	// Party chains are resolved relative to the party anchor node.
	partyNameChain = FirstOf(At("PartyTaxScheme/RegistrationName"), At("PartyName/Name"))
	partyNITChain  = FirstOf(At("PartyTaxScheme/CompanyID"), At("PartyIdentification/ID"))

	addressLineChain   = FirstOf(At("AddressLine/Line"))
	addressPostalChain = FirstOf(At("PostalZone"))
	addressCityChain   = FirstOf(At("CityName"))

	monetaryTotalPath = xmlpath.MustCompile("//LegalMonetaryTotal")

	subtotalChain   = FirstOf(At("TaxExclusiveAmount"))
	descuentosChain = FirstOf(At("AllowanceTotalAmount"))
	totalPagarChain = FirstOf(At("PayableAmount"))

	taxSubtotalPath = xmlpath.MustCompile("//TaxTotal/TaxSubtotal")

	taxSchemeIDChain = FirstOf(At("TaxCategory/TaxScheme/ID"))
	taxPercentChain  = FirstOf(At("TaxCategory/Percent"))
	taxAmountChain   = FirstOf(At("TaxAmount"))

	invoiceLinePath     = xmlpath.MustCompile("//InvoiceLine")
	allowanceChargePath = xmlpath.MustCompile("AllowanceCharge")

	lineNumberChain      = FirstOf(At("ID"))
	lineDescriptionChain = FirstOf(At("Item/Description"))
	lineQuantityChain    = FirstOf(At("InvoicedQuantity"))
	linePriceChain       = FirstOf(At("Price/PriceAmount"))
	lineTotalChain       = FirstOf(At("LineExtensionAmount"))

	chargeIndicatorChain  = FirstOf(At("ChargeIndicator"))
	multiplierFactorChain = FirstOf(At("MultiplierFactorNumeric"))
)

// =============================================================================
// SECTION EXTRACTORS
// =============================================================================

// extractGeneral reads the invoice header: number, prefix, CUFE, dates and
// billing period. The prefix lives under the supplier's corporate
// registration scheme, an asymmetry preserved from the DIAN profile.
func extractGeneral(root *xmlpath.Node) map[string]string {
	data := map[string]string{
		invoice.FieldNumeroFactura:    numeroFacturaChain.Resolve(root),
		invoice.FieldPrefijo:          prefijoChain.Resolve(root),
		invoice.FieldCUFE:             cufeChain.Resolve(root),
		invoice.FieldFechaEmision:     fechaEmisionChain.Resolve(root),
		invoice.FieldFechaVencimiento: fechaVencimientoChain.Resolve(root),
		invoice.FieldPeriodoInicio:    periodoInicioChain.Resolve(root),
		invoice.FieldPeriodoFin:       periodoFinChain.Resolve(root),
	}

	// IssueTime carries a timezone offset ("10:21:43-05:00"); only the
	// time-of-day portion is reported.
	data[invoice.FieldHoraEmision] = stripTimeOffset(horaEmisionChain.Resolve(root))

	return data
}

// stripTimeOffset cuts a trailing timezone offset from a time-of-day value.
func stripTimeOffset(t string) string {
	t, _, _ = strings.Cut(t, "-")
	t, _, _ = strings.Cut(t, "+")
	return t
}

// extractCustomer reads the accounting customer party. When the party node
// is absent every customer field defaults to the empty string.
func extractCustomer(root *xmlpath.Node) map[string]string {
	data := map[string]string{
		invoice.FieldClienteNombre:       "",
		invoice.FieldClienteNIT:          "",
		invoice.FieldClienteDireccion:    "",
		invoice.FieldClienteCodigoPostal: "",
		invoice.FieldClienteMunicipio:    "",
	}

	party, ok := firstNode(customerPartyPath, root)
	if !ok {
		return data
	}

	data[invoice.FieldClienteNombre] = partyNameChain.Resolve(party)
	data[invoice.FieldClienteNIT] = partyNITChain.Resolve(party)

	if address, ok := firstNode(partyAddressPath, party); ok {
		data[invoice.FieldClienteDireccion] = addressLineChain.Resolve(address)
		data[invoice.FieldClienteCodigoPostal] = addressPostalChain.Resolve(address)
		data[invoice.FieldClienteMunicipio] = addressCityChain.Resolve(address)
	}

	return data
}

// extractSupplier reads the accounting supplier party. The supplier address
// is a single line only; postal code and city are a customer-side concern.
func extractSupplier(root *xmlpath.Node) map[string]string {
	data := map[string]string{
		invoice.FieldEmisorNombre:    "",
		invoice.FieldEmisorNIT:       "",
		invoice.FieldEmisorDireccion: "",
	}

	party, ok := firstNode(supplierPartyPath, root)
	if !ok {
		return data
	}

	data[invoice.FieldEmisorNombre] = partyNameChain.Resolve(party)
	data[invoice.FieldEmisorNIT] = partyNITChain.Resolve(party)

	if address, ok := firstNode(partyAddressPath, party); ok {
		data[invoice.FieldEmisorDireccion] = addressLineChain.Resolve(address)
	}

	return data
}

// extractAmounts reads the legal monetary totals and the IVA tax subtotal.
//
// Totals default to "0.00" when the monetary-total node itself is absent:
// a missing financial block means "known to be zero", unlike the empty
// string used for absent descriptive fields. For VAT, the first tax
// subtotal whose scheme ID equals "01" wins; other schemes (consumption
// taxes, ICA) are ignored.
func extractAmounts(root *xmlpath.Node) map[string]string {
	data := map[string]string{}

	if monetary, ok := firstNode(monetaryTotalPath, root); ok {
		data[invoice.FieldSubtotal] = subtotalChain.Resolve(monetary)
		data[invoice.FieldDescuentosTotales] = descuentosChain.Resolve(monetary)
		data[invoice.FieldTotalPagar] = totalPagarChain.Resolve(monetary)
	} else {
		data[invoice.FieldSubtotal] = "0.00"
		data[invoice.FieldDescuentosTotales] = "0.00"
		data[invoice.FieldTotalPagar] = "0.00"
	}

	data[invoice.FieldIVAPorcentaje] = "0.00"
	data[invoice.FieldIVAMonto] = "0.00"

	iter := taxSubtotalPath.Iter(root)
	for iter.Next() {
		subtotal := iter.Node()
		if taxSchemeIDChain.Resolve(subtotal) != vatSchemeID {
			continue
		}
		data[invoice.FieldIVAPorcentaje] = taxPercentChain.Resolve(subtotal)
		data[invoice.FieldIVAMonto] = taxAmountChain.Resolve(subtotal)
		break
	}

	// Voice/data consumption taxes are reserved columns: the DIAN invoice
	// profile does not carry them structurally.
	data[invoice.FieldImpConsumoVoz] = "0.00"
	data[invoice.FieldImpConsumoDatos] = "0.00"

	return data
}

// extractLines enumerates the invoice lines in document order.
func extractLines(root *xmlpath.Node) []invoice.LineItem {
	var lines []invoice.LineItem

	iter := invoiceLinePath.Iter(root)
	for iter.Next() {
		line := iter.Node()

		fields := map[string]string{
			invoice.FieldLineaNumero:         lineNumberChain.Resolve(line),
			invoice.FieldLineaDescripcion:    lineDescriptionChain.Resolve(line),
			invoice.FieldLineaCantidad:       lineQuantityChain.Resolve(line),
			invoice.FieldLineaPrecioUnitario: linePriceChain.Resolve(line),
			invoice.FieldLineaTotal:          lineTotalChain.Resolve(line),
		}

		// The discount percentage lives on an allowance/charge sibling
		// whose indicator is literally "false" (a discount, not a
		// surcharge).
		fields[invoice.FieldLineaDescuentoPorcentaje] = "0.00"
		charges := allowanceChargePath.Iter(line)
		for charges.Next() {
			charge := charges.Node()
			if chargeIndicatorChain.Resolve(charge) != "false" {
				continue
			}
			fields[invoice.FieldLineaDescuentoPorcentaje] = multiplierFactorChain.Or("0.00").Resolve(charge)
			break
		}

		lines = append(lines, invoice.LineItem{Fields: fields})
	}

	return lines
}

// =============================================================================
// ORCHESTRATION
// =============================================================================

// ParseInvoice unwraps the document and runs every section extractor,
// assembling the full invoice record. It returns a ParseError only when
// unwrapping fails; individual field lookups can never abort extraction.
func ParseInvoice(doc *xmlpath.Node, source string) (*invoice.Record, error) {
	root, err := Unwrap(doc, source)
	if err != nil {
		return nil, err
	}

	rec := invoice.NewRecord(source)
	rec.Merge(extractGeneral(root))
	rec.Merge(extractCustomer(root))
	rec.Merge(extractSupplier(root))
	rec.Merge(extractAmounts(root))
	rec.Lines = extractLines(root)

	log.WithFields(logrus.Fields{
		"invoice": rec.NumeroFactura(),
		"lines":   len(rec.Lines),
	}).Info("Successfully parsed invoice")

	return rec, nil
}
