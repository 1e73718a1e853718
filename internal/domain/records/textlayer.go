package records

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spiritsdata/nabca-extract/internal/domain/byclass"
	"github.com/spiritsdata/nabca-extract/internal/domain/engine"
	"github.com/spiritsdata/nabca-extract/internal/domain/top100"
)

var byClassColumns = []string{
	"run_id", "report_year", "report_month",
	"class_name", "parent_class",
	"pct_of_class", "pct_total_dist_spirits", "total_cases",
	"cases_1_75l", "cases_1_0l", "cases_750ml", "cases_750ml_traveler",
	"cases_375ml", "cases_200ml", "cases_100ml", "cases_50ml",
}

var top100Columns = []string{
	"run_id", "report_year", "report_month",
	"rank", "vendor_name", "market_share",
	"l12m_cases_this_year", "l12m_cases_prior_year", "l12m_change_pct",
	"ytd_cases_this_year", "ytd_cases_last_year", "ytd_change_pct",
	"curr_month_this_year", "curr_month_last_year", "curr_month_change_pct",
}

// ReplaceCurrentMonth swaps out one month of by-class rows and returns the
// number of rows written.
func (r *Repository) ReplaceCurrentMonth(ctx context.Context, runID uuid.UUID, period engine.Period, records []byclass.Record) (int64, error) {
	return r.replace(ctx, "raw_current_month", byClassColumns, period, byClassTuples(runID, records))
}

// ReplaceTop100 swaps out one month of vendor-ranking rows and returns the
// number of rows written.
func (r *Repository) ReplaceTop100(ctx context.Context, runID uuid.UUID, period engine.Period, records []top100.Record) (int64, error) {
	return r.replace(ctx, "raw_top100_vendors", top100Columns, period, top100Tuples(runID, records))
}

func byClassTuples(runID uuid.UUID, records []byclass.Record) [][]any {
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []any{
			runID, rec.Period.Year, rec.Period.Month,
			rec.Class, rec.ParentClass,
			rec.PctOfClass, rec.PctTotal, orZero(rec.TotalCases),
			orZero(rec.Cases175L), orZero(rec.Cases1L),
			orZero(rec.Cases750ML), orZero(rec.Cases750Trav),
			orZero(rec.Cases375ML), orZero(rec.Cases200ML),
			orZero(rec.Cases100ML), orZero(rec.Cases50ML),
		})
	}
	return rows
}

func top100Tuples(runID uuid.UUID, records []top100.Record) [][]any {
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []any{
			runID, rec.Period.Year, rec.Period.Month,
			rec.Rank, rec.Vendor, rec.MarketShare,
			rec.L12MThisYear, rec.L12MPriorYear, rec.L12MChange,
			rec.YTDThisYear, rec.YTDLastYear, rec.YTDChange,
			rec.CurrThisYear, rec.CurrLastYear, rec.CurrChange,
		})
	}
	return rows
}

// orZero backs the NOT NULL case-count columns: a cell the table never
// printed loads as zero, the way the data has always been stored.
func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
