package export

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spiritsdata/nabca-extract/internal/domain/engine"
)

func sampleBrandRecords(period engine.Period) []engine.Record {
	return []engine.Record{
		{
			Period: period, Page: 3,
			Vendor: "DIAGEO", Brand: "SMIRNOFF", Class: "VODKA-DOM", ParentClass: "VODKA",
			Values: map[string]decimal.Decimal{
				engine.ColL12MCasesTY:   decimal.NewFromInt(1200),
				engine.ColL12MPctChange: decimal.RequireFromString("11.1"),
				engine.ColCurr750ML:     decimal.NewFromInt(300),
			},
		},
		{
			Period: period, Page: 3,
			Vendor: "DIAGEO", Brand: "KETEL ONE", Class: "VODKA-IMP", ParentClass: "VODKA",
			Values: map[string]decimal.Decimal{
				engine.ColL12MCasesTY: decimal.NewFromInt(800),
			},
		},
	}
}

func TestBrandSummaryCSV(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	require.NoError(t, err)

	period := engine.Period{Year: 2024, Month: 9}
	path, err := w.BrandSummaryCSV(period, sampleBrandRecords(period))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "brand_summary_2024-09.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "report_year")
	assert.Contains(t, lines[0], "curr_month_750ml_traveler")
	assert.Contains(t, lines[1], "SMIRNOFF")
	assert.Contains(t, lines[1], "11.1")
	// absent columns stay empty, not zero
	assert.Contains(t, lines[2], ",,")
	assert.NotContains(t, lines[2], ",0,0,")
}

func TestVendorSummaryCSV(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, nil)
	require.NoError(t, err)

	period := engine.Period{Year: 2025, Month: 2}
	recs := []engine.Record{
		{
			Period: period, Page: 12,
			Vendor: "SAZERAC CO INC", Brand: "FIREBALL", Class: "CORDIALS",
			Values: map[string]decimal.Decimal{
				engine.ColL12MThisYear: decimal.NewFromInt(5000),
				engine.ColCurrThisYear: decimal.NewFromInt(420),
			},
		},
	}
	path, err := w.VendorSummaryCSV(period, recs)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FIREBALL")
	assert.Contains(t, string(data), "5000")
}

func TestCombinedCSVSpansPeriods(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, nil)
	require.NoError(t, err)

	p1 := engine.Period{Year: 2024, Month: 7}
	p2 := engine.Period{Year: 2024, Month: 8}
	recs := append(sampleBrandRecords(p1), sampleBrandRecords(p2)...)

	path, err := w.CombinedBrandCSV(recs)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, string(data), "2024,7")
	assert.Contains(t, string(data), "2024,8")
}

func TestWorkbookSheetPerPeriod(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, nil)
	require.NoError(t, err)

	p1 := engine.Period{Year: 2024, Month: 7}
	p2 := engine.Period{Year: 2024, Month: 8}
	byPeriod := map[engine.Period][]engine.Record{
		p1: sampleBrandRecords(p1),
		p2: sampleBrandRecords(p2),
	}

	path, err := w.Workbook("brand_summary.xlsx", BrandColumns(), byPeriod, []engine.Period{p1, p2})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"2024-07", "2024-08"}, f.GetSheetList())

	got, err := f.GetCellValue("2024-07", "B2")
	require.NoError(t, err)
	assert.Equal(t, "SMIRNOFF", got)

	header, err := f.GetCellValue("2024-07", "E1")
	require.NoError(t, err)
	assert.Equal(t, engine.ColL12MCasesTY, header)
}

func TestRowsPreserveNilForMissingValues(t *testing.T) {
	period := engine.Period{Year: 2025, Month: 1}
	rows := BrandRows(sampleBrandRecords(period))
	require.Len(t, rows, 2)

	assert.NotNil(t, rows[0].L12MPctChange)
	assert.Nil(t, rows[0].L12MCasesLY)
	assert.Nil(t, rows[1].Curr750ML)
	assert.Equal(t, "1200", rows[0].L12MCasesTY.String())
}
