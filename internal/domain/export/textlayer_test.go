package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiritsdata/nabca-extract/internal/domain/byclass"
	"github.com/spiritsdata/nabca-extract/internal/domain/engine"
	"github.com/spiritsdata/nabca-extract/internal/domain/top100"
)

func TestByClassCSV(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, nil)
	require.NoError(t, err)

	period := engine.Period{Year: 2024, Month: 7}
	pct := decimal.RequireFromString("45.70")
	total := decimal.NewFromInt(423145)
	recs := []byclass.Record{
		{
			Period: period, Class: "DOM WHSKY-STRT-BRBN", ParentClass: "DOM WHSKY",
			PctOfClass: &pct, TotalCases: &total,
		},
	}

	path, err := w.ByClassCSV(period, recs)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "current_month_by_class_2024-07.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "pct_total_dist_spirits")
	assert.Contains(t, lines[0], "cases_750ml_traveler")
	assert.Contains(t, lines[1], "DOM WHSKY-STRT-BRBN")
	assert.Contains(t, lines[1], "45.7")
	// unprinted size columns stay empty in the file
	assert.True(t, strings.HasSuffix(lines[1], ",,,,,,,,"))
}

func TestTop100CSV(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, nil)
	require.NoError(t, err)

	period := engine.Period{Year: 2024, Month: 7}
	share := decimal.RequireFromString("14.50")
	l12m := decimal.NewFromInt(8810256)
	recs := []top100.Record{
		{
			Period: period, Vendor: "SAZERAC COMPANY", Rank: 1,
			MarketShare: &share, L12MThisYear: &l12m,
		},
	}

	path, err := w.Top100CSV(period, recs)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "top100_vendors_2024-07.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "market_share")
	assert.Contains(t, lines[1], "SAZERAC COMPANY")
	assert.Contains(t, lines[1], "8810256")
}
