package layout

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Band names a half-open X interval [XMin, XMax). A numeric token whose X
// position falls inside the band is assigned to the column of that name.
type Band struct {
	Name string
	XMin float64
	XMax float64
}

// BandSet is an ordered list of bands. Order is significant: bands are
// checked in declaration order and the first containing band wins, which
// lets deliberately overlapping bands bias ambiguous positions toward one
// column. Once a column has a value it is never overwritten — Textract
// occasionally emits a stray duplicate token inside an overlapping band.
type BandSet struct {
	bands []Band
}

// NewBandSet builds a BandSet preserving the given priority order.
func NewBandSet(bands ...Band) BandSet {
	return BandSet{bands: bands}
}

// Columns returns the band names in priority order.
func (s BandSet) Columns() []string {
	names := make([]string, len(s.bands))
	for i, b := range s.bands {
		names[i] = b.Name
	}
	return names
}

// NumericFilter controls which tokens are eligible for column assignment.
type NumericFilter struct {
	// IntegersOnly drops any token containing a decimal point. Subtotal
	// rows in the brand summary carry only whole case counts; decimals
	// there are leaked percentages.
	IntegersOnly bool

	// DropPercentShapes excludes tokens whose magnitude and decimal shape
	// mark them as percentages rather than case volumes. Applied to detail
	// rows only: subtotal rows keep their percentage columns separable by
	// position alone.
	DropPercentShapes bool
}

// Classify assigns each parseable numeric token to the first band containing
// its X position. Tokens that fail to parse as numbers are skipped silently;
// numeric parsing is best-effort per token. The leftover slice holds tokens
// that parsed but matched no band.
func (s BandSet) Classify(tokens []Token, filter NumericFilter) (map[string]decimal.Decimal, []Token) {
	values := make(map[string]decimal.Decimal, len(s.bands))
	var leftover []Token

	for _, tok := range tokens {
		text := cleanNumeric(tok.Text)
		if text == "" || text == "-" || text == "ON" || text == "00" || text == ".00" {
			continue
		}
		if filter.IntegersOnly && strings.Contains(text, ".") {
			continue
		}

		val, err := decimal.NewFromString(text)
		if err != nil {
			continue
		}
		if filter.DropPercentShapes && looksLikePercentage(text, val) {
			continue
		}

		assigned := false
		for _, band := range s.bands {
			if tok.X >= band.XMin && tok.X < band.XMax {
				if _, filled := values[band.Name]; !filled {
					values[band.Name] = val
				}
				assigned = true
				break
			}
		}
		if !assigned {
			leftover = append(leftover, tok)
		}
	}

	return values, leftover
}

// cleanNumeric strips formatting characters Textract leaves on numbers:
// thousands separators, percent signs, and the occasional colon misread.
func cleanNumeric(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, ":", "")
	s = strings.ReplaceAll(s, "%", "")
	return strings.TrimSpace(s)
}

// looksLikePercentage reports whether a token's shape marks it as a
// percentage leaking into a volume band. The thresholds are calibrated
// against observed report values: case counts near column boundaries are
// large integers, percentages are small and fractional.
func looksLikePercentage(text string, val decimal.Decimal) bool {
	hasDecimal := strings.Contains(text, ".")
	abs := val.Abs()

	// Small non-integer values, e.g. 17.4 or -3.25.
	if hasDecimal && !val.IsInteger() && abs.LessThanOrEqual(decimal.NewFromInt(200)) {
		return true
	}
	// Round two-decimal percentages, e.g. 100.00 or 25.0.
	if (strings.HasSuffix(text, ".00") || strings.HasSuffix(text, ".0")) && abs.LessThanOrEqual(decimal.NewFromInt(250)) {
		return true
	}
	// Sub-one fractions, e.g. .00 or 0.5.
	if hasDecimal && abs.LessThan(decimal.NewFromInt(1)) {
		return true
	}
	return false
}
