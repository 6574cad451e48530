// =============================================================================
// fac2csv - Field Resolver
// =============================================================================
//
// The single lookup primitive every extraction flows through. A field's
// "try A, else B, else default" logic is modeled as an ordered chain of
// compiled path expressions evaluated against a context node, not as bespoke
// conditionals per field. Resolution never fails: no match, an empty match,
// or absent intermediate nodes at any depth all fall through to the next
// candidate and finally to the default.
//
// Path expressions use bare local element names: xmlpath matches on local
// name and ignores namespace URIs, and the presence of the UBL namespace on
// the document root is validated upstream. Expressions beginning with "//"
// are evaluated from the document root regardless of the context node, so
// chains meant to stay inside a sub-node (a party, a tax subtotal, an
// invoice line) must use relative child paths.
//
// Attribute lookups are ordinary chain entries whose path expression ends in
// an attribute step ("UUID/@schemeName").
//
// =============================================================================

package ublparser

import (
	"strings"

	"gopkg.in/xmlpath.v2"
)

// Lookup is one candidate location for a field value.
type Lookup struct {
	expr string
	path *xmlpath.Path
}

// At builds a Lookup from a local-name path expression. Expressions are
// fixed constants, so a bad one is a programming error.
func At(expr string) Lookup {
	return Lookup{expr: expr, path: xmlpath.MustCompile(expr)}
}

// Chain is an ordered fallback chain for one logical field.
type Chain struct {
	lookups []Lookup
	def     string
}

// FirstOf builds a chain that returns the first non-empty match among the
// given lookups, or "" when none match.
func FirstOf(lookups ...Lookup) Chain {
	return Chain{lookups: lookups}
}

// Or returns a copy of the chain with a different default value.
func (c Chain) Or(def string) Chain {
	c.def = def
	return c
}

// Resolve evaluates the chain against a context node and returns the trimmed
// text content of the first matching candidate, or the chain default.
func (c Chain) Resolve(node *xmlpath.Node) string {
	if node == nil {
		return c.def
	}
	for _, l := range c.lookups {
		if value, ok := l.path.String(node); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return c.def
}

// firstNode returns the first node matched by the path under the given
// context, in document order.
func firstNode(p *xmlpath.Path, ctx *xmlpath.Node) (*xmlpath.Node, bool) {
	iter := p.Iter(ctx)
	if iter.Next() {
		return iter.Node(), true
	}
	return nil, false
}
