package top100

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiritsdata/nabca-extract/internal/domain/engine"
)

func testPeriod() engine.Period { return engine.Period{Year: 2024, Month: 7} }

// rankingDoc places table pages at the index the scan window expects.
func rankingDoc(pages ...[]string) [][]string {
	doc := make([][]string, 299, 299+len(pages))
	return append(doc, pages...)
}

func TestParse_RankedVendors(t *testing.T) {
	doc := rankingDoc([]string{
		"TOP 100 - VENDORS",
		"SAZERAC COMPANY 1 14.50 8810256 8505861 3.58 6500998 6277342 3.56 762214 692759 10.03",
		"DIAGEO NORTH AMERICA 2 13.20 8020112 8100453 -0.99 5900441 5950012 -0.83 700551 710442 -1.39",
	})

	recs := Parse(doc, testPeriod(), nil)
	require.Len(t, recs, 2)

	first := recs[0]
	assert.Equal(t, "SAZERAC COMPANY", first.Vendor)
	assert.Equal(t, 1, first.Rank)
	require.NotNil(t, first.MarketShare)
	assert.True(t, first.MarketShare.Equal(decimal.RequireFromString("14.50")))
	require.NotNil(t, first.L12MThisYear)
	assert.True(t, first.L12MThisYear.Equal(decimal.NewFromInt(8810256)))
	require.NotNil(t, first.CurrChange)
	assert.True(t, first.CurrChange.Equal(decimal.RequireFromString("10.03")))

	second := recs[1]
	assert.Equal(t, "DIAGEO NORTH AMERICA", second.Vendor)
	assert.Equal(t, 2, second.Rank)
	require.NotNil(t, second.L12MChange)
	assert.True(t, second.L12MChange.Equal(decimal.RequireFromString("-0.99")))
}

func TestParse_DashMeansAbsent(t *testing.T) {
	doc := rankingDoc([]string{
		"TOP 100 - VENDORS",
		"NEW ENTRANT LLC 97 0.10 60112 - - 44021 - - 5501 - -",
	})

	recs := Parse(doc, testPeriod(), nil)
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].L12MPriorYear)
	assert.Nil(t, recs[0].L12MChange)
	require.NotNil(t, recs[0].L12MThisYear)
	assert.True(t, recs[0].L12MThisYear.Equal(decimal.NewFromInt(60112)))
}

func TestParse_DedupesRepeatedRanks(t *testing.T) {
	doc := rankingDoc(
		[]string{
			"TOP 100 - VENDORS",
			"SAZERAC COMPANY 1 14.50 8810256 8505861 3.58 6500998 6277342 3.56 762214 692759 10.03",
		},
		[]string{
			// The continuation page reprints the leader before resuming.
			"SAZERAC COMPANY 1 14.50 8810256 8505861 3.58 6500998 6277342 3.56 762214 692759 10.03",
			"TITO'S HANDMADE 3 9.80 5905540 5702211 3.57 4311002 4188990 2.91 505778 488102 3.62",
		},
	)

	recs := Parse(doc, testPeriod(), nil)
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].Rank)
	assert.Equal(t, 3, recs[1].Rank)
}

func TestParse_StopsAtTopTwenty(t *testing.T) {
	doc := rankingDoc(
		[]string{
			"TOP 100 - VENDORS",
			"SAZERAC COMPANY 1 14.50 8810256 8505861 3.58 6500998 6277342 3.56 762214 692759 10.03",
		},
		[]string{
			"TOP 20 - VENDORS BY CLASS",
			"PROXIMO SPIRITS 4 8.10 4905540 4702211 4.32 3311002 3188990 3.83 405778 388102 4.55",
		},
	)

	recs := Parse(doc, testPeriod(), nil)
	require.Len(t, recs, 1)
	assert.Equal(t, "SAZERAC COMPANY", recs[0].Vendor)
}

func TestParse_SkipsHeaderLines(t *testing.T) {
	doc := rankingDoc([]string{
		"TOP 100 - VENDORS",
		"Market Last 12 Year Current",
		"Rank Share Months to Date Month",
		"Vendor This Year Prior Year % Chg",
		"detcetorP thgirypoC ACBAN 631 1 2 3 4 5 6 7 8 9 10 11",
	})

	assert.Empty(t, Parse(doc, testPeriod(), nil))
}

func TestParse_IgnoresPagesBeforeSection(t *testing.T) {
	doc := rankingDoc([]string{
		// Vendor-shaped line on a page before the section banner.
		"SAZERAC COMPANY 1 14.50 8810256 8505861 3.58 6500998 6277342 3.56 762214 692759 10.03",
	})

	assert.Empty(t, Parse(doc, testPeriod(), nil))
}
