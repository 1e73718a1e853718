package export

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/spiritsdata/nabca-extract/internal/domain/byclass"
	"github.com/spiritsdata/nabca-extract/internal/domain/engine"
	"github.com/spiritsdata/nabca-extract/internal/domain/top100"
)

// ByClassRow is one current-month class record flattened for export.
type ByClassRow struct {
	ReportYear  int    `csv:"report_year"`
	ReportMonth int    `csv:"report_month"`
	ClassName   string `csv:"class_name"`
	ParentClass string `csv:"parent_class"`

	PctOfClass          *decimal.Decimal `csv:"pct_of_class"`
	PctTotalDistSpirits *decimal.Decimal `csv:"pct_total_dist_spirits"`
	TotalCases          *decimal.Decimal `csv:"total_cases"`
	Cases175L           *decimal.Decimal `csv:"cases_1_75l"`
	Cases1L             *decimal.Decimal `csv:"cases_1_0l"`
	Cases750ML          *decimal.Decimal `csv:"cases_750ml"`
	Cases750MLTraveler  *decimal.Decimal `csv:"cases_750ml_traveler"`
	Cases375ML          *decimal.Decimal `csv:"cases_375ml"`
	Cases200ML          *decimal.Decimal `csv:"cases_200ml"`
	Cases100ML          *decimal.Decimal `csv:"cases_100ml"`
	Cases50ML           *decimal.Decimal `csv:"cases_50ml"`
}

// Top100Row is one ranked vendor flattened for export.
type Top100Row struct {
	ReportYear  int    `csv:"report_year"`
	ReportMonth int    `csv:"report_month"`
	Rank        int    `csv:"rank"`
	VendorName  string `csv:"vendor_name"`

	MarketShare        *decimal.Decimal `csv:"market_share"`
	L12MCasesThisYear  *decimal.Decimal `csv:"l12m_cases_this_year"`
	L12MCasesPriorYear *decimal.Decimal `csv:"l12m_cases_prior_year"`
	L12MChangePct      *decimal.Decimal `csv:"l12m_change_pct"`
	YTDCasesThisYear   *decimal.Decimal `csv:"ytd_cases_this_year"`
	YTDCasesLastYear   *decimal.Decimal `csv:"ytd_cases_last_year"`
	YTDChangePct       *decimal.Decimal `csv:"ytd_change_pct"`
	CurrMonthThisYear  *decimal.Decimal `csv:"curr_month_this_year"`
	CurrMonthLastYear  *decimal.Decimal `csv:"curr_month_last_year"`
	CurrMonthChangePct *decimal.Decimal `csv:"curr_month_change_pct"`
}

// ByClassRows flattens parsed class records into export rows.
func ByClassRows(records []byclass.Record) []*ByClassRow {
	rows := make([]*ByClassRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, &ByClassRow{
			ReportYear:          r.Period.Year,
			ReportMonth:         r.Period.Month,
			ClassName:           r.Class,
			ParentClass:         r.ParentClass,
			PctOfClass:          r.PctOfClass,
			PctTotalDistSpirits: r.PctTotal,
			TotalCases:          r.TotalCases,
			Cases175L:           r.Cases175L,
			Cases1L:             r.Cases1L,
			Cases750ML:          r.Cases750ML,
			Cases750MLTraveler:  r.Cases750Trav,
			Cases375ML:          r.Cases375ML,
			Cases200ML:          r.Cases200ML,
			Cases100ML:          r.Cases100ML,
			Cases50ML:           r.Cases50ML,
		})
	}
	return rows
}

// Top100Rows flattens parsed ranking records into export rows.
func Top100Rows(records []top100.Record) []*Top100Row {
	rows := make([]*Top100Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, &Top100Row{
			ReportYear:         r.Period.Year,
			ReportMonth:        r.Period.Month,
			Rank:               r.Rank,
			VendorName:         r.Vendor,
			MarketShare:        r.MarketShare,
			L12MCasesThisYear:  r.L12MThisYear,
			L12MCasesPriorYear: r.L12MPriorYear,
			L12MChangePct:      r.L12MChange,
			YTDCasesThisYear:   r.YTDThisYear,
			YTDCasesLastYear:   r.YTDLastYear,
			YTDChangePct:       r.YTDChange,
			CurrMonthThisYear:  r.CurrThisYear,
			CurrMonthLastYear:  r.CurrLastYear,
			CurrMonthChangePct: r.CurrChange,
		})
	}
	return rows
}

// ByClassCSV writes one period's current-month class records.
func (w *Writer) ByClassCSV(period engine.Period, records []byclass.Record) (string, error) {
	name := fmt.Sprintf("current_month_by_class_%s.csv", period)
	return w.writeCSV(name, ByClassRows(records))
}

// Top100CSV writes one period's vendor ranking.
func (w *Writer) Top100CSV(period engine.Period, records []top100.Record) (string, error) {
	name := fmt.Sprintf("top100_vendors_%s.csv", period)
	return w.writeCSV(name, Top100Rows(records))
}
