// Package engine reconstructs report records from positioned OCR tokens.
// It walks row-grouped pages, opens sections on class or vendor labels,
// assigns numeric tokens to columns by X position, and verifies each
// section's running sums against its printed TOTAL row.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spiritsdata/nabca-extract/internal/domain/layout"
)

// ErrNoReportPages is returned when no page passed the profile's page
// filter. Usually the wrong PDF section was submitted for OCR.
var ErrNoReportPages = errors.New("engine: no pages matched the report filter")

// Period identifies one monthly report issue.
type Period struct {
	Year  int
	Month int
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Record is one reconstructed table row. Values holds only the columns that
// carried a value; absent cells stay absent rather than becoming zero.
type Record struct {
	Period      Period
	Page        int
	Vendor      string
	Brand       string
	Class       string
	ParentClass string
	Values      map[string]decimal.Decimal
}

// Value returns the named column value, or a zero decimal when absent.
func (r Record) Value(col string) decimal.Decimal {
	return r.Values[col]
}

// Result is the output of one extraction run.
type Result struct {
	Records []Record

	// Totals holds the printed TOTAL row values per section key, for
	// downstream verification and reporting.
	Totals map[string]map[string]decimal.Decimal

	// Mismatches from subtotal validation. Diagnostics only.
	Mismatches []Mismatch

	// Pages is the count of pages that passed the report filter.
	Pages int

	// Relabeled counts sections whose records were rewritten after the
	// TOTAL row disambiguated the section label.
	Relabeled int

	// RepairedVendors and RepairedClasses count truncated labels restored
	// from the known-name indexes.
	RepairedVendors int
	RepairedClasses int
}

// Engine runs extraction for one report profile. Engines are stateless
// between Extract calls and safe for concurrent use.
type Engine struct {
	profile   Profile
	grouper   *layout.Grouper
	validator *Validator
	log       *slog.Logger
}

// New builds an Engine for the profile.
func New(profile Profile, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("profile", profile.Name))
	return &Engine{
		profile: profile,
		grouper: layout.NewGrouper(layout.GrouperConfig{
			MarginThreshold: profile.Margin,
			RowTolerance:    layout.DefaultGrouperConfig().RowTolerance,
		}),
		validator: NewValidator(profile.Validator, log),
		log:       log,
	}
}

// Extract reconstructs records from the document's tokens. The same token
// set always yields the same result. ErrNoReportPages is returned alongside
// an empty result when the page filter matched nothing.
func (e *Engine) Extract(tokens []layout.Token, period Period) (*Result, error) {
	res := &Result{Totals: make(map[string]map[string]decimal.Decimal)}
	st := &state{
		sums: make(map[string]decimal.Decimal),
	}
	detail := e.profile.DetailBands(period)

	for _, page := range e.grouper.GroupDocument(tokens) {
		if e.profile.MinPage > 0 && page.Number < e.profile.MinPage {
			continue
		}
		if e.profile.PageGate != nil && !e.profile.PageGate(pageText(page)) {
			continue
		}
		res.Pages++

		for _, row := range page.Rows {
			e.processRow(row, page.Number, period, detail, st, res)
		}
	}

	st.flush()
	res.Records = st.committed

	e.log.Info("extraction complete",
		slog.String("period", period.String()),
		slog.Int("pages", res.Pages),
		slog.Int("records", len(res.Records)),
		slog.Int("sections", len(res.Totals)),
		slog.Int("mismatches", len(res.Mismatches)),
	)

	if res.Pages == 0 {
		return res, ErrNoReportPages
	}
	return res, nil
}

func (e *Engine) processRow(row layout.Row, page int, period Period, detail layout.BandSet, st *state, res *Result) {
	p := e.profile

	col1Toks := row.Slice(0, p.Col1Max)
	col1 := textOf(col1Toks)
	if p.Header.IsHeader(row.Text(), col1) {
		return
	}
	if col1 == "" {
		return
	}

	col2 := textOf(row.Slice(p.Col1Max, p.Col2Max))
	col3 := row.Slice(p.Col2Max, math.Inf(1))
	col1Upper := strings.ToUpper(col1)

	if strings.HasPrefix(col1Upper, "TOTAL") {
		e.handleTotal(col1, col1Upper, col2, col3, page, period, st, res)
		return
	}

	switch p.Kind {
	case KindClassSections:
		e.processClassRow(col1, col1Upper, col2, col3, page, period, detail, st)
	case KindVendorSections:
		e.processVendorRow(col1, col2, col3, col1Toks[0].X, page, period, detail, st, res)
	}
}

// processClassRow handles brand-summary rows: a row either opens a class
// section or is a brand detail row under the current class.
func (e *Engine) processClassRow(col1, col1Upper, col2 string, col3 []layout.Token, page int, period Period, detail layout.BandSet, st *state) {
	p := e.profile

	combined := p.Vocab.Combine(col1, col2)
	hasVendor := col2 != "" && !p.Vocab.IsSuffix(col2)

	if combined.IsSection {
		if canon, _, ok := p.Vocab.Match(combined.Label); ok {
			st.open(canon)
			e.log.Debug("section opened", slog.String("class", canon), slog.Int("page", page))
			return
		}
		// A trailing dash on the label column is a structural split cue we
		// trust even when the joined name is not in the vocabulary yet.
		if strings.HasSuffix(col1Upper, "-") {
			st.open(combined.Label)
			e.log.Debug("section opened unverified", slog.String("class", combined.Label), slog.Int("page", page))
			return
		}
	}

	if !hasVendor {
		if canon, _, ok := p.Vocab.Match(col1Upper); ok {
			st.open(canon)
			e.log.Debug("section opened", slog.String("class", canon), slog.Int("page", page))
			return
		}
		return
	}

	if st.section == "" {
		return
	}

	values, _ := detail.Classify(col3, p.DetailFilter)
	rec := Record{
		Period: period,
		Page:   page,
		Class:  st.section,
		Brand:  col1,
		Vendor: col2,
		Values: values,
	}
	if p.ParentClass != nil {
		rec.ParentClass = p.ParentClass(st.section)
	}
	st.add(rec, p.SumColumns)
}

// processVendorRow handles vendor-summary rows: lone left-edge rows open a
// vendor section, everything else with a class or numbers is a brand row.
func (e *Engine) processVendorRow(col1, col2 string, col3 []layout.Token, firstX float64, page int, period Period, detail layout.BandSet, st *state, res *Result) {
	p := e.profile

	hasClass := col2 != ""
	hasNumeric := len(col3) > 0

	if firstX < p.VendorMaxX && !hasClass && !hasNumeric {
		vendor := col1
		if p.Vendors != nil && p.Vendors.IsTruncated(vendor) {
			if repaired, ok := p.Vendors.Repair(vendor); ok {
				e.log.Debug("vendor repaired",
					slog.String("from", vendor), slog.String("to", repaired))
				vendor = repaired
				res.RepairedVendors++
			}
		}
		st.open(vendor)
		return
	}

	if st.section == "" || (!hasClass && !hasNumeric) {
		return
	}

	// Page-footer text sometimes merges into the brand cell.
	brand := stripMergedTotalVendor(col1)
	if brand == "" {
		return
	}

	class := col2
	if class != "" && p.Vocab.IsTruncated(class) {
		if repaired, ok := p.Vocab.RepairTruncated(class); ok {
			e.log.Debug("class repaired",
				slog.String("from", class), slog.String("to", repaired))
			class = repaired
			res.RepairedClasses++
		}
	}

	values, _ := detail.Classify(col3, p.DetailFilter)
	rec := Record{
		Period: period,
		Page:   page,
		Vendor: st.section,
		Brand:  brand,
		Class:  class,
		Values: values,
	}
	st.add(rec, p.SumColumns)
}

// handleTotal closes the current section: resolves the TOTAL row's label,
// retroactively relabels the section when the TOTAL disambiguates it,
// extracts the printed totals, and validates the running sums against them.
func (e *Engine) handleTotal(col1, col1Upper, col2 string, col3 []layout.Token, page int, period Period, st *state, res *Result) {
	p := e.profile

	if p.Kind == KindClassSections {
		// The TOTAL label may split across both text columns mid-word:
		// "TOTAL BRNDY/CG" + "NC-CGNC-VS". Join without a space.
		label := strings.TrimSpace(strings.TrimPrefix(col1Upper, "TOTAL"))
		if col2 != "" {
			label += strings.ToUpper(col2)
		}
		if matched, _, ok := p.Vocab.Match(label); ok && matched != st.section {
			// The section opened under an ambiguous shorter name; the
			// TOTAL row carries the full one. Rewrite the buffered
			// records before the section closes.
			if st.section != "" && strings.HasPrefix(matched, st.section) {
				st.relabel(matched, p.ParentClass)
				res.Relabeled++
				e.log.Info("section relabeled from total row",
					slog.String("class", matched), slog.Int("page", page))
			}
		}
	}

	if st.section != "" {
		var totals map[string]decimal.Decimal
		if len(col3) > 0 {
			totals, _ = p.TotalBands.Classify(col3, p.TotalFilter)
			res.Totals[st.section] = totals
			res.Mismatches = append(res.Mismatches, e.validator.Check(st.section, st.sums, totals)...)
		}

		// A TOTAL row whose numbers were lost to the scan still marks the
		// section boundary; emit it with empty values rather than drop it.
		if p.EmitTotals {
			st.add(Record{
				Period: period,
				Page:   page,
				Vendor: st.section,
				Brand:  col1,
				Values: totals,
			}, nil)
		}
	}

	st.close()
}

// state carries the section context across rows. Records of the open section
// are buffered until it closes so a TOTAL-row relabel can rewrite them.
type state struct {
	committed []Record
	buffered  []Record
	section   string
	buffering bool
	sums      map[string]decimal.Decimal
}

func (s *state) open(key string) {
	s.flush()
	s.section = key
	s.buffering = true
	s.sums = make(map[string]decimal.Decimal)
}

func (s *state) add(rec Record, sumCols []string) {
	if s.buffering {
		s.buffered = append(s.buffered, rec)
	} else {
		s.committed = append(s.committed, rec)
	}
	for _, col := range sumCols {
		if v, ok := rec.Values[col]; ok {
			s.sums[col] = s.sums[col].Add(v)
		}
	}
}

func (s *state) relabel(key string, parent func(string) string) {
	for i := range s.buffered {
		s.buffered[i].Class = key
		if parent != nil {
			s.buffered[i].ParentClass = parent(key)
		}
	}
	s.section = key
}

// close finalizes the open section. The section key is kept so stray detail
// rows between a TOTAL and the next section header still attach somewhere,
// but they are no longer buffered: relabeling is settled.
func (s *state) close() {
	s.flush()
}

func (s *state) flush() {
	if len(s.buffered) > 0 {
		s.committed = append(s.committed, s.buffered...)
		s.buffered = nil
	}
	s.buffering = false
}

// stripMergedTotalVendor removes page-footer text OCR occasionally merges
// into a brand cell. A cell that was only the footer yields "".
func stripMergedTotalVendor(brand string) string {
	upper := strings.ToUpper(brand)
	if !strings.Contains(upper, "TOTAL VENDOR") {
		return brand
	}
	cleaned := strings.ReplaceAll(brand, " TOTAL VENDOR", "")
	cleaned = strings.ReplaceAll(cleaned, "TOTAL VENDOR ", "")
	cleaned = strings.ReplaceAll(cleaned, "TOTAL VENDOR", "")
	return strings.TrimSpace(cleaned)
}

func textOf(tokens []layout.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		parts = append(parts, t.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func pageText(p layout.Page) string {
	var b strings.Builder
	for _, row := range p.Rows {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(row.Text())
	}
	return b.String()
}
