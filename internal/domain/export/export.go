// Package export writes extraction results to CSV and XLSX files laid out
// like the database tables, one file per report per month plus combined
// workbooks for review.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/spiritsdata/nabca-extract/internal/domain/engine"
)

// BrandRow is one brand-summary record flattened for export. Pointer value
// columns keep absent cells empty instead of zero.
type BrandRow struct {
	ReportYear  int    `csv:"report_year"`
	ReportMonth int    `csv:"report_month"`
	Class       string `csv:"class"`
	ParentClass string `csv:"parent_class"`
	Brand       string `csv:"brand"`
	Vendor      string `csv:"vendor"`

	L12MCasesTY    *decimal.Decimal `csv:"l12m_cases_ty"`
	L12MCasesLY    *decimal.Decimal `csv:"l12m_cases_ly"`
	L12MPctChange  *decimal.Decimal `csv:"l12m_pct_change"`
	YTDCasesTY     *decimal.Decimal `csv:"ytd_cases_ty"`
	CurrMonthCases *decimal.Decimal `csv:"curr_month_cases"`
	Curr175L       *decimal.Decimal `csv:"curr_month_175l"`
	Curr1L         *decimal.Decimal `csv:"curr_month_1l"`
	Curr750ML      *decimal.Decimal `csv:"curr_month_750ml"`
	Curr750MLTrav  *decimal.Decimal `csv:"curr_month_750ml_traveler"`
	Curr375ML      *decimal.Decimal `csv:"curr_month_375ml"`
	Curr200ML      *decimal.Decimal `csv:"curr_month_200ml"`
	Curr100ML      *decimal.Decimal `csv:"curr_month_100ml"`
	Curr50ML       *decimal.Decimal `csv:"curr_month_50ml"`
}

// VendorRow is one vendor-summary record flattened for export.
type VendorRow struct {
	ReportYear  int    `csv:"report_year"`
	ReportMonth int    `csv:"report_month"`
	Vendor      string `csv:"vendor"`
	Brand       string `csv:"brand"`
	Class       string `csv:"class"`

	L12MThisYear  *decimal.Decimal `csv:"l12m_this_year"`
	L12MPriorYear *decimal.Decimal `csv:"l12m_prior_year"`
	YTDThisYear   *decimal.Decimal `csv:"ytd_this_year"`
	YTDLastYear   *decimal.Decimal `csv:"ytd_last_year"`
	CurrThisYear  *decimal.Decimal `csv:"curr_month_this_year"`
	CurrLastYear  *decimal.Decimal `csv:"curr_month_last_year"`
}

// BrandRows flattens engine records into export rows.
func BrandRows(records []engine.Record) []*BrandRow {
	rows := make([]*BrandRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, &BrandRow{
			ReportYear:     r.Period.Year,
			ReportMonth:    r.Period.Month,
			Class:          r.Class,
			ParentClass:    r.ParentClass,
			Brand:          r.Brand,
			Vendor:         r.Vendor,
			L12MCasesTY:    val(r, engine.ColL12MCasesTY),
			L12MCasesLY:    val(r, engine.ColL12MCasesLY),
			L12MPctChange:  val(r, engine.ColL12MPctChange),
			YTDCasesTY:     val(r, engine.ColYTDCasesTY),
			CurrMonthCases: val(r, engine.ColCurrMonthCases),
			Curr175L:       val(r, engine.ColCurr175L),
			Curr1L:         val(r, engine.ColCurr1L),
			Curr750ML:      val(r, engine.ColCurr750ML),
			Curr750MLTrav:  val(r, engine.ColCurr750MLTrav),
			Curr375ML:      val(r, engine.ColCurr375ML),
			Curr200ML:      val(r, engine.ColCurr200ML),
			Curr100ML:      val(r, engine.ColCurr100ML),
			Curr50ML:       val(r, engine.ColCurr50ML),
		})
	}
	return rows
}

// VendorRows flattens engine records into export rows.
func VendorRows(records []engine.Record) []*VendorRow {
	rows := make([]*VendorRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, &VendorRow{
			ReportYear:    r.Period.Year,
			ReportMonth:   r.Period.Month,
			Vendor:        r.Vendor,
			Brand:         r.Brand,
			Class:         r.Class,
			L12MThisYear:  val(r, engine.ColL12MThisYear),
			L12MPriorYear: val(r, engine.ColL12MPriorYear),
			YTDThisYear:   val(r, engine.ColYTDThisYear),
			YTDLastYear:   val(r, engine.ColYTDLastYear),
			CurrThisYear:  val(r, engine.ColCurrThisYear),
			CurrLastYear:  val(r, engine.ColCurrLastYear),
		})
	}
	return rows
}

// BrandColumns is the workbook column order for brand-summary sheets.
func BrandColumns() []string {
	return []string{
		engine.ColL12MCasesTY, engine.ColL12MCasesLY, engine.ColL12MPctChange,
		engine.ColYTDCasesTY, engine.ColCurrMonthCases,
		engine.ColCurr175L, engine.ColCurr1L, engine.ColCurr750ML, engine.ColCurr750MLTrav,
		engine.ColCurr375ML, engine.ColCurr200ML, engine.ColCurr100ML, engine.ColCurr50ML,
	}
}

// VendorColumns is the workbook column order for vendor-summary sheets.
func VendorColumns() []string {
	return []string{
		engine.ColL12MThisYear, engine.ColL12MPriorYear,
		engine.ColYTDThisYear, engine.ColYTDLastYear,
		engine.ColCurrThisYear, engine.ColCurrLastYear,
	}
}

func val(r engine.Record, col string) *decimal.Decimal {
	if v, ok := r.Values[col]; ok {
		return &v
	}
	return nil
}

// Writer writes export files under a base directory.
type Writer struct {
	dir string
	log *slog.Logger
}

// NewWriter creates the output directory if needed.
func NewWriter(dir string, log *slog.Logger) (*Writer, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create output dir: %w", err)
	}
	return &Writer{dir: dir, log: log}, nil
}

// BrandSummaryCSV writes one period's brand-summary records and returns the
// file path.
func (w *Writer) BrandSummaryCSV(period engine.Period, records []engine.Record) (string, error) {
	name := fmt.Sprintf("brand_summary_%s.csv", period)
	return w.writeCSV(name, BrandRows(records))
}

// VendorSummaryCSV writes one period's vendor-summary records.
func (w *Writer) VendorSummaryCSV(period engine.Period, records []engine.Record) (string, error) {
	name := fmt.Sprintf("vendor_summary_%s.csv", period)
	return w.writeCSV(name, VendorRows(records))
}

// CombinedBrandCSV writes all periods into a single review file.
func (w *Writer) CombinedBrandCSV(records []engine.Record) (string, error) {
	return w.writeCSV("brand_summary_all_months.csv", BrandRows(records))
}

// CombinedVendorCSV writes all periods into a single review file.
func (w *Writer) CombinedVendorCSV(records []engine.Record) (string, error) {
	return w.writeCSV("vendor_summary_all_months.csv", VendorRows(records))
}

func (w *Writer) writeCSV(name string, rows any) (string, error) {
	path := filepath.Join(w.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create %s: %w", name, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return "", fmt.Errorf("export: write %s: %w", name, err)
	}
	w.log.Info("csv written", slog.String("path", path))
	return path, nil
}

// Workbook writes one XLSX file with a sheet per period, in the order
// given. Both report shapes share this writer; column headers come from the
// profile's band names.
func (w *Writer) Workbook(name string, columns []string, byPeriod map[engine.Period][]engine.Record, order []engine.Period) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := append([]string{"vendor", "brand", "class", "parent_class"}, columns...)

	for i, period := range order {
		sheet := period.String()
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return "", fmt.Errorf("export: rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return "", fmt.Errorf("export: add sheet %s: %w", sheet, err)
			}
		}

		if err := setRow(f, sheet, 1, toAnySlice(header)); err != nil {
			return "", err
		}
		for rowIdx, rec := range byPeriod[period] {
			cells := []any{rec.Vendor, rec.Brand, rec.Class, rec.ParentClass}
			for _, col := range columns {
				if v, ok := rec.Values[col]; ok {
					cells = append(cells, v.InexactFloat64())
				} else {
					cells = append(cells, nil)
				}
			}
			if err := setRow(f, sheet, rowIdx+2, cells); err != nil {
				return "", err
			}
		}
	}

	path := filepath.Join(w.dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("export: save workbook: %w", err)
	}
	w.log.Info("workbook written", slog.String("path", path), slog.Int("sheets", len(order)))
	return path, nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("export: write row %d: %w", row, err)
	}
	return nil
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
