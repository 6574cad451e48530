// =============================================================================
// fac2csv - Amount Normalizer
// =============================================================================
//
// Canonicalizes the heterogeneous numeric-looking strings found in DIAN
// invoices ("1.234,56", "19.0", "10", "") into fixed two-decimal text.
// Applied uniformly to the seven invoice-level and four line-level monetary
// columns at projection time, nowhere else.
//
// =============================================================================

package amount

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

// SetLogger replaces the package logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Normalize renders a monetary value with exactly two fractional digits.
//
// Rules, in order: an empty value yields "0.00"; grouping commas are
// stripped; the remainder is parsed as a decimal number and rendered with
// two digits using round-half-to-even; anything unparsable yields "0.00"
// with a warning logged, never an error.
func Normalize(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "0.00"
	}

	cleaned := strings.ReplaceAll(trimmed, ",", "")

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		log.WithField("value", value).Warn("Could not normalize value as decimal, returning 0.00")
		return "0.00"
	}

	return d.StringFixedBank(2)
}
