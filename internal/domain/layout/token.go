// Package layout reconstructs physical table rows from positioned OCR text.
// Coordinates are normalized to the page: x and y are fractions in [0, 1]
// measured from the top-left corner, as emitted by Textract bounding boxes.
package layout

import (
	"math"
	"sort"
)

// Token is a single line of text placed on a page. Tokens are produced once
// by the OCR layer and never mutated afterwards.
type Token struct {
	Page  int
	Text  string
	X     float64
	Y     float64
	Width float64
}

// Row is an ordered (left to right) group of tokens sharing a Y position
// within the grouping tolerance. Rows carry no identity of their own; they
// are recomputed per page.
type Row []Token

// Page holds the rows reconstructed for one PDF page, in top-to-bottom order.
type Page struct {
	Number int
	Rows   []Row
}

// GrouperConfig tunes the row reconstruction.
type GrouperConfig struct {
	// MarginThreshold drops tokens left of this X position. The report
	// prints vertical copyright text in the left margin that would
	// otherwise be clustered into data rows.
	MarginThreshold float64

	// RowTolerance is the maximum Y gap between consecutive tokens that
	// still belong to the same physical row.
	RowTolerance float64
}

// DefaultGrouperConfig matches the calibration for the NABCA report layout.
func DefaultGrouperConfig() GrouperConfig {
	return GrouperConfig{
		MarginThreshold: 0.05,
		RowTolerance:    0.008,
	}
}

// Grouper clusters positioned tokens into rows.
type Grouper struct {
	cfg GrouperConfig
}

// NewGrouper creates a Grouper with the given configuration.
func NewGrouper(cfg GrouperConfig) *Grouper {
	return &Grouper{cfg: cfg}
}

// GroupDocument splits tokens by page and reconstructs each page's rows.
// Pages come back in ascending page order. A document with no usable tokens
// yields an empty slice, not an error.
func (g *Grouper) GroupDocument(tokens []Token) []Page {
	byPage := make(map[int][]Token)
	for _, t := range tokens {
		if t.X < g.cfg.MarginThreshold {
			continue
		}
		byPage[t.Page] = append(byPage[t.Page], t)
	}

	numbers := make([]int, 0, len(byPage))
	for n := range byPage {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	pages := make([]Page, 0, len(numbers))
	for _, n := range numbers {
		rows := g.groupPage(byPage[n])
		if len(rows) == 0 {
			continue
		}
		pages = append(pages, Page{Number: n, Rows: rows})
	}
	return pages
}

// GroupPage reconstructs the rows of a single page. The grouper is stateless
// across pages, so pages can be processed in any order or re-processed.
func (g *Grouper) GroupPage(tokens []Token) []Row {
	kept := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.X < g.cfg.MarginThreshold {
			continue
		}
		kept = append(kept, t)
	}
	return g.groupPage(kept)
}

func (g *Grouper) groupPage(tokens []Token) []Row {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		yi, yj := roundY(sorted[i].Y), roundY(sorted[j].Y)
		if yi != yj {
			return yi < yj
		}
		return sorted[i].X < sorted[j].X
	})

	var rows []Row
	var current Row
	prevY := math.NaN()

	for _, t := range sorted {
		if !math.IsNaN(prevY) && math.Abs(t.Y-prevY) > g.cfg.RowTolerance {
			if len(current) > 0 {
				rows = append(rows, current)
			}
			current = nil
		}
		current = append(current, t)
		prevY = t.Y
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}
	return rows
}

// Text joins the row's token texts left to right with single spaces.
func (r Row) Text() string {
	n := 0
	for _, t := range r {
		n += len(t.Text) + 1
	}
	buf := make([]byte, 0, n)
	for i, t := range r {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, t.Text...)
	}
	return string(buf)
}

// Slice returns the row's tokens whose X position lies in [min, max), in
// left-to-right order. Pass math.Inf(1) as max for an open right edge.
func (r Row) Slice(min, max float64) []Token {
	var out []Token
	for _, t := range r {
		if t.X >= min && t.X < max {
			out = append(out, t)
		}
	}
	return out
}

// roundY quantizes Y to three decimals so the primary sort key is stable for
// tokens that sit on the same baseline but differ by float noise.
func roundY(y float64) float64 {
	return math.Round(y*1000) / 1000
}
