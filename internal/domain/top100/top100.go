// Package top100 parses the TOP 100 - VENDORS ranking table. Like the
// By Class table it lives in the PDF's text layer, one vendor per line,
// and is parsed without OCR.
package top100

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spiritsdata/nabca-extract/internal/domain/engine"
)

// Record is one ranked vendor. Pointer fields stay nil where the table
// prints a dash.
type Record struct {
	Period engine.Period
	Vendor string
	Rank   int

	MarketShare *decimal.Decimal

	L12MThisYear  *decimal.Decimal
	L12MPriorYear *decimal.Decimal
	L12MChange    *decimal.Decimal

	YTDThisYear *decimal.Decimal
	YTDLastYear *decimal.Decimal
	YTDChange   *decimal.Decimal

	CurrThisYear *decimal.Decimal
	CurrLastYear *decimal.Decimal
	CurrChange   *decimal.Decimal
}

// The ranking's page number drifts between issues; every one seen so far
// falls inside this zero-indexed window.
const (
	firstPage = 299
	lastPage  = 450
)

// Parse scans the window for the TOP 100 - VENDORS pages and reconstructs
// the ranking. Ranks repeat across the table's page header carryover, so
// the first occurrence of each rank wins. The scan stops at the TOP 20 -
// VENDORS section or once all hundred ranks are in.
func Parse(pages [][]string, period engine.Period, log *slog.Logger) []Record {
	if log == nil {
		log = slog.Default()
	}

	var records []Record
	found := make(map[int]bool)
	inSection := false

	end := min(lastPage, len(pages))
	for pageIdx := firstPage; pageIdx < end; pageIdx++ {
		text := strings.Join(pages[pageIdx], "\n")
		if strings.Contains(text, "TOP 100 - VENDORS") ||
			(strings.Contains(text, "TOP 100") && strings.Contains(text, "VENDORS")) {
			inSection = true
		}
		if inSection && strings.Contains(text, "TOP 20 - VENDORS") {
			break
		}
		if !inSection {
			continue
		}

		for _, line := range pages[pageIdx] {
			rec, ok := parseVendorLine(line, period)
			if !ok || found[rec.Rank] {
				continue
			}
			records = append(records, rec)
			found[rec.Rank] = true
		}
		if len(found) >= 100 {
			break
		}
	}

	log.Info("top 100 vendors parsed",
		slog.String("period", period.String()),
		slog.Int("records", len(records)))
	return records
}

var skipFragments = []string{
	"NABCA", "TOP 100", "Share", "Vendor", "Rank", "Market",
	"ACBAN", "thgirypoC", "ALL CONTROL", "PAGE", "to Date",
	"Last 12", "Current", "Months", "This Year", "Prior Year",
}

// apostrophes normalizes the curly quotes and replacement runes the text
// layer produces inside vendor names.
var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "�", "'")

// parseVendorLine splits one ranking line: the vendor name runs up to the
// rank, which is the first bare integer between 1 and 100, followed by the
// share and the nine case columns.
func parseVendorLine(line string, period engine.Period) (Record, bool) {
	line = strings.TrimSpace(line)
	if len(line) < 20 {
		return Record{}, false
	}
	for _, frag := range skipFragments {
		if strings.Contains(line, frag) {
			return Record{}, false
		}
	}

	parts := strings.Fields(line)
	if len(parts) < 12 {
		return Record{}, false
	}

	numStart := -1
	rank := 0
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err == nil && n >= 1 && n <= 100 {
			numStart = i
			rank = n
			break
		}
	}
	// The rank needs a name before it and ten values after it.
	if numStart < 1 || numStart >= len(parts)-10 {
		return Record{}, false
	}

	vendor := apostrophes.Replace(strings.Join(parts[:numStart], " "))
	nums := parts[numStart:]

	return Record{
		Period:        period,
		Vendor:        vendor,
		Rank:          rank,
		MarketShare:   parseNum(nums[1]),
		L12MThisYear:  parseNum(nums[2]),
		L12MPriorYear: parseNum(nums[3]),
		L12MChange:    parseNum(nums[4]),
		YTDThisYear:   parseNum(nums[5]),
		YTDLastYear:   parseNum(nums[6]),
		YTDChange:     parseNum(nums[7]),
		CurrThisYear:  parseNum(nums[8]),
		CurrLastYear:  parseNum(nums[9]),
		CurrChange:    parseNum(nums[10]),
	}, true
}

// parseNum reads one table value; dashes mark absent cells.
func parseNum(s string) *decimal.Decimal {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return nil
	}
	val, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &val
}
