package engine

import (
	"strings"

	"github.com/spiritsdata/nabca-extract/internal/domain/layout"
	"github.com/spiritsdata/nabca-extract/internal/domain/vocab"
)

// Kind selects how sections open within a report table.
type Kind int

const (
	// KindClassSections opens a section when a row resolves to a known
	// class label. Used by the Brand Summary table.
	KindClassSections Kind = iota

	// KindVendorSections opens a section on a lone vendor-name row hugging
	// the left edge. Used by the Vendor Summary table.
	KindVendorSections
)

// Profile bundles everything layout-specific about one report table: column
// split points, band calibrations, header cues, and the vocabulary used to
// resolve section labels. The extraction loop itself is shared.
type Profile struct {
	Name string
	Kind Kind

	// Margin drops left-margin furniture before row grouping.
	Margin float64

	// Col1Max and Col2Max split each row into label, secondary and numeric
	// regions by X position.
	Col1Max float64
	Col2Max float64

	// VendorMaxX bounds the first-token X of a section-opening vendor row.
	// Only meaningful for KindVendorSections.
	VendorMaxX float64

	// MinPage skips leading pages wholesale. PageGate, when set, filters
	// pages by their full text.
	MinPage  int
	PageGate func(pageText string) bool

	Header  *HeaderDetector
	Vocab   *vocab.Vocabulary
	Vendors *vocab.VendorIndex

	// DetailBands may vary by report period; some months shift the column
	// grid. TotalBands are calibrated separately because subtotal rows
	// print left-shifted from detail rows.
	DetailBands func(Period) layout.BandSet
	TotalBands  layout.BandSet

	DetailFilter layout.NumericFilter
	TotalFilter  layout.NumericFilter

	// SumColumns are accumulated per section and checked against the
	// section's TOTAL row.
	SumColumns []string

	// EmitTotals writes TOTAL rows through as records with an empty class.
	EmitTotals bool

	ParentClass func(string) string

	Validator ValidatorConfig
}

// Brand Summary column names.
const (
	ColL12MCasesTY    = "l12m_cases_ty"
	ColL12MCasesLY    = "l12m_cases_ly"
	ColL12MPctChange  = "l12m_pct_change"
	ColYTDCasesTY     = "ytd_cases_ty"
	ColCurrMonthCases = "curr_month_cases"
	ColCurr175L       = "curr_month_175l"
	ColCurr1L         = "curr_month_1l"
	ColCurr750ML      = "curr_month_750ml"
	ColCurr750MLTrav  = "curr_month_750ml_traveler"
	ColCurr375ML      = "curr_month_375ml"
	ColCurr200ML      = "curr_month_200ml"
	ColCurr100ML      = "curr_month_100ml"
	ColCurr50ML       = "curr_month_50ml"
)

// Vendor Summary column names.
const (
	ColL12MThisYear  = "l12m_this_year"
	ColL12MPriorYear = "l12m_prior_year"
	ColYTDThisYear   = "ytd_this_year"
	ColYTDLastYear   = "ytd_last_year"
	ColCurrThisYear  = "curr_month_this_year"
	ColCurrLastYear  = "curr_month_last_year"
)

var brandSumColumns = []string{
	ColL12MCasesTY, ColL12MCasesLY, ColYTDCasesTY, ColCurrMonthCases,
	ColCurr175L, ColCurr1L, ColCurr750ML, ColCurr750MLTrav,
	ColCurr375ML, ColCurr200ML, ColCurr100ML, ColCurr50ML,
}

var vendorSumColumns = []string{
	ColL12MThisYear, ColL12MPriorYear, ColYTDThisYear, ColYTDLastYear,
	ColCurrThisYear, ColCurrLastYear,
}

// BrandSummary is the profile for the BRAND SUMMARY - CASE SALES table.
// Sections are product classes; detail rows carry brand and vendor.
func BrandSummary() Profile {
	// Bottle-size headers sit at 1.75L@0.554, 1.0L@0.607, 750ml@0.654,
	// trav@0.704, 375ml@0.753, 200ml@0.806, 100ml@0.857, 50ml@0.908.
	// The traveler/375ml boundary is 0.73, not 0.75: traveler values print
	// left of their header.
	detail := layout.NewBandSet(
		layout.Band{Name: ColL12MCasesTY, XMin: 0.27, XMax: 0.335},
		layout.Band{Name: ColL12MCasesLY, XMin: 0.335, XMax: 0.40},
		layout.Band{Name: ColL12MPctChange, XMin: 0.40, XMax: 0.44},
		layout.Band{Name: ColYTDCasesTY, XMin: 0.44, XMax: 0.50},
		layout.Band{Name: ColCurrMonthCases, XMin: 0.50, XMax: 0.54},
		layout.Band{Name: ColCurr175L, XMin: 0.54, XMax: 0.60},
		layout.Band{Name: ColCurr1L, XMin: 0.60, XMax: 0.65},
		layout.Band{Name: ColCurr750ML, XMin: 0.65, XMax: 0.73},
		layout.Band{Name: ColCurr750MLTrav, XMin: 0.73, XMax: 0.75},
		layout.Band{Name: ColCurr375ML, XMin: 0.75, XMax: 0.82},
		layout.Band{Name: ColCurr200ML, XMin: 0.82, XMax: 0.86},
		layout.Band{Name: ColCurr100ML, XMin: 0.86, XMax: 0.905},
		layout.Band{Name: ColCurr50ML, XMin: 0.905, XMax: 0.96},
	)

	// TOTAL rows have no percentage column and carry whole case counts
	// only; a decimal there is a leaked percentage.
	total := layout.NewBandSet(
		layout.Band{Name: ColL12MCasesTY, XMin: 0.27, XMax: 0.335},
		layout.Band{Name: ColL12MCasesLY, XMin: 0.335, XMax: 0.40},
		layout.Band{Name: ColYTDCasesTY, XMin: 0.44, XMax: 0.50},
		layout.Band{Name: ColCurrMonthCases, XMin: 0.50, XMax: 0.54},
		layout.Band{Name: ColCurr175L, XMin: 0.54, XMax: 0.60},
		layout.Band{Name: ColCurr1L, XMin: 0.60, XMax: 0.65},
		layout.Band{Name: ColCurr750ML, XMin: 0.65, XMax: 0.73},
		layout.Band{Name: ColCurr750MLTrav, XMin: 0.73, XMax: 0.75},
		layout.Band{Name: ColCurr375ML, XMin: 0.75, XMax: 0.82},
		layout.Band{Name: ColCurr200ML, XMin: 0.82, XMax: 0.86},
		layout.Band{Name: ColCurr100ML, XMin: 0.86, XMax: 0.905},
		layout.Band{Name: ColCurr50ML, XMin: 0.905, XMax: 0.96},
	)

	return Profile{
		Name:     "brand_summary",
		Kind:     KindClassSections,
		Margin:   0.05,
		Col1Max:  0.14,
		Col2Max:  0.27,
		PageGate: brandSummaryPage,
		Header:   NewHeaderDetector(brandSummaryHeader()),
		Vocab:    vocab.BrandSummaryClasses(),
		DetailBands: func(Period) layout.BandSet {
			return detail
		},
		TotalBands:   total,
		DetailFilter: layout.NumericFilter{},
		TotalFilter:  layout.NumericFilter{IntegersOnly: true},
		SumColumns:   brandSumColumns,
		ParentClass:  vocab.ParentClass,
		Validator: ValidatorConfig{
			Columns:            brandSumColumns,
			StrictPct:          0.01,
			AdvisoryPct:        5,
			SkipZeroCalculated: true,
		},
	}
}

func brandSummaryHeader() HeaderConfig {
	return HeaderConfig{
		// 'CLASS & TYPE' rather than 'CLASS': the bare word matches
		// VODKA-CLASSIC-DOM.
		Phrases: []string{
			"CLASS & TYPE", "CASE SALES", "CONTROL STATES",
			"THIS YEAR", "LAST TWELVE", "CURRENT MONTH", "% OF TYPE",
		},
		Words:        []string{"VENDOR", "PAGE", "NABCA", "BOTTLE", "TRAVELER", "MONTH", "YEAR"},
		Col1Labels:   []string{"VENDOR", "CLASS & TYPE", "BRAND", ""},
		Col1Contains: []string{"CLASS"},
	}
}

// brandSummaryPage keeps only true brand-summary pages. The report also
// carries BRAND LEADERS and BY CLASS sections whose pages mention the same
// title words.
func brandSummaryPage(text string) bool {
	upper := strings.ToUpper(text)
	return strings.Contains(upper, "BRAND SUMMARY") &&
		!strings.Contains(upper, "BRAND LEADERS") &&
		!strings.Contains(upper, "BY CLASS")
}

// VendorSummary is the profile for the VENDOR SUMMARY - ALL CONTROL STATES
// table. Sections are vendors; detail rows carry brand and long-form class.
func VendorSummary(vendors *vocab.VendorIndex) Profile {
	total := layout.NewBandSet(
		layout.Band{Name: ColL12MThisYear, XMin: 0.370, XMax: 0.445},
		layout.Band{Name: ColL12MPriorYear, XMin: 0.445, XMax: 0.520},
		layout.Band{Name: ColYTDThisYear, XMin: 0.575, XMax: 0.635},
		layout.Band{Name: ColYTDLastYear, XMin: 0.635, XMax: 0.715},
		layout.Band{Name: ColCurrThisYear, XMin: 0.780, XMax: 0.845},
		layout.Band{Name: ColCurrLastYear, XMin: 0.845, XMax: 0.890},
	)

	// Detail rows print right-shifted from TOTAL rows, and the two current
	// month columns overlap on purpose: last-year is checked first so the
	// overlap zone resolves to it.
	standard := layout.NewBandSet(
		layout.Band{Name: ColL12MThisYear, XMin: 0.370, XMax: 0.420},
		layout.Band{Name: ColL12MPriorYear, XMin: 0.420, XMax: 0.520},
		layout.Band{Name: ColYTDThisYear, XMin: 0.575, XMax: 0.625},
		layout.Band{Name: ColYTDLastYear, XMin: 0.625, XMax: 0.715},
		layout.Band{Name: ColCurrLastYear, XMin: 0.750, XMax: 0.930},
		layout.Band{Name: ColCurrThisYear, XMin: 0.715, XMax: 0.830},
	)

	// The early 2025 issues print the whole grid shifted right.
	early2025 := layout.NewBandSet(
		layout.Band{Name: ColL12MThisYear, XMin: 0.370, XMax: 0.450},
		layout.Band{Name: ColL12MPriorYear, XMin: 0.450, XMax: 0.540},
		layout.Band{Name: ColYTDThisYear, XMin: 0.540, XMax: 0.635},
		layout.Band{Name: ColYTDLastYear, XMin: 0.635, XMax: 0.720},
		layout.Band{Name: ColCurrLastYear, XMin: 0.795, XMax: 0.930},
		layout.Band{Name: ColCurrThisYear, XMin: 0.720, XMax: 0.805},
	)

	return Profile{
		Name:       "vendor_summary",
		Kind:       KindVendorSections,
		Margin:     0.04,
		Col1Max:    0.17,
		Col2Max:    0.35,
		VendorMaxX: 0.064,
		// The first ten pages are the TOP 100 section.
		MinPage: 11,
		Header:  NewHeaderDetector(vendorSummaryHeader()),
		Vocab:   vocab.VendorSummaryClasses(),
		Vendors: vendors,
		DetailBands: func(p Period) layout.BandSet {
			if p.Year == 2025 && p.Month >= 1 && p.Month <= 3 {
				return early2025
			}
			return standard
		},
		TotalBands:   total,
		DetailFilter: layout.NumericFilter{DropPercentShapes: true},
		TotalFilter:  layout.NumericFilter{},
		SumColumns:   vendorSumColumns,
		EmitTotals:   true,
		Validator: ValidatorConfig{
			Columns:       vendorSumColumns,
			StrictPct:     0.01,
			AdvisoryPct:   5,
			PrimaryColumn: ColL12MThisYear,
			MinPrimary:    1000,
		},
	}
}

func vendorSummaryHeader() HeaderConfig {
	return HeaderConfig{
		// No bare 'CLASS' or month names: CLASS matches GIN-CLASSIC-DOM
		// and MAY matches the EL MAYOR brand. Month cues require the
		// trailing year.
		Phrases: []string{
			"VENDOR SUMMARY", "CASE SALES", "CONTROL STATES",
			"VENDOR / BRAND", "LAST 12 MONTHS", "NABCA", "COPYRIGHT",
			"JANUARY 20", "FEBRUARY 20", "MARCH 20", "APRIL 20",
			"MAY 20", "JUNE 20", "JULY 20", "AUGUST 20",
			"SEPTEMBER 20", "OCTOBER 20", "NOVEMBER 20", "DECEMBER 20",
		},
	}
}
