// =============================================================================
// fac2csv - Document Unwrapper
// =============================================================================
//
// DIAN invoices arrive either as a bare Invoice document or wrapped in an
// AttachedDocument envelope whose cac:ExternalReference/cbc:Description node
// carries the real invoice as escaped markup. The unwrapper locates the
// Invoice root in both shapes without mutating the outer tree.
//
// =============================================================================

package ublparser

import (
	"strings"

	"gopkg.in/xmlpath.v2"
)

// Root checks match on local name only: the Invoice root declares the UBL
// Invoice namespace as its default namespace, and namespace presence is
// validated upstream.
var (
	invoiceRootPath  = xmlpath.MustCompile("/Invoice")
	attachedRootPath = xmlpath.MustCompile("/AttachedDocument")

	embeddedDescriptionPath = xmlpath.MustCompile("//ExternalReference/Description")
)

// Unwrap returns the root element of the invoice payload.
//
// If the document root is an Invoice it is returned unchanged. If the root
// is an AttachedDocument, the escaped markup inside the external-reference
// description is re-parsed as a standalone document and its Invoice root is
// returned. Any other shape, or a re-parse failure, yields a ParseError
// identifying the source.
func Unwrap(doc *xmlpath.Node, source string) (*xmlpath.Node, error) {
	if doc == nil {
		return nil, &ParseError{Source: source, Msg: "no document tree"}
	}

	if root, ok := firstNode(invoiceRootPath, doc); ok {
		return root, nil
	}

	if _, ok := firstNode(attachedRootPath, doc); ok {
		embedded, found := embeddedDescriptionPath.String(doc)
		embedded = strings.TrimSpace(embedded)
		if found && embedded != "" {
			inner, err := xmlpath.Parse(strings.NewReader(embedded))
			if err != nil {
				return nil, &ParseError{Source: source, Msg: "embedded invoice is not well-formed XML", Err: err}
			}
			if root, ok := firstNode(invoiceRootPath, inner); ok {
				return root, nil
			}
		}
	}

	return nil, &ParseError{Source: source, Msg: "could not find Invoice element"}
}
