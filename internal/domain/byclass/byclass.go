// Package byclass parses the By Class - Current Month - Total Case Sales
// table. Unlike the brand and vendor summaries, this table lives in the
// report's text layer and prints one class per line, so it is parsed
// straight from the PDF without OCR.
package byclass

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spiritsdata/nabca-extract/internal/domain/engine"
	"github.com/spiritsdata/nabca-extract/internal/domain/vocab"
)

// Record is one class row of the current-month table. Pointer fields stay
// nil where the report prints nothing for the cell.
type Record struct {
	Period      engine.Period
	Class       string
	ParentClass string

	// PctOfClass is the row's share within its class family. PctTotal is
	// the share of all distilled spirits, printed on TOTAL rows only.
	PctOfClass *decimal.Decimal
	PctTotal   *decimal.Decimal
	TotalCases *decimal.Decimal

	Cases175L    *decimal.Decimal
	Cases1L      *decimal.Decimal
	Cases750ML   *decimal.Decimal
	Cases750Trav *decimal.Decimal
	Cases375ML   *decimal.Decimal
	Cases200ML   *decimal.Decimal
	Cases100ML   *decimal.Decimal
	Cases50ML    *decimal.Decimal
}

// The table prints long summary labels that the loaded data shortens.
var classRenames = map[string]string{
	"TWO YEAR SPIRITS COMPARISON--THIS YEAR": "TWO YEAR SPIRITS",
	"PERCENT OF INCREASE OR DECREASE":        "PERCENT OF INCREASE OR",
}

// The current-month table sits on pages 4-10 of every issue seen so far;
// the scan never leaves that window. Zero-indexed.
const (
	firstPage = 3
	lastPage  = 10
)

// Parse walks the document's page lines and reconstructs the current-month
// section. The section opens at the CURRENT MONTH banner and closes when
// the YEAR TO DATE variant of the same table begins.
func Parse(pages [][]string, period engine.Period, log *slog.Logger) []Record {
	if log == nil {
		log = slog.Default()
	}

	var records []Record
	inSection := false

	end := min(lastPage, len(pages))
	for pageIdx := firstPage; pageIdx < end; pageIdx++ {
		for _, line := range pages[pageIdx] {
			if strings.Contains(line, "CURRENT MONTH") && strings.Contains(line, "TOTAL CASE SALES") {
				inSection = true
				continue
			}
			if strings.Contains(line, "YEAR TO DATE") && strings.Contains(line, "TOTAL CASE SALES") {
				inSection = false
				continue
			}
			if !inSection {
				continue
			}

			parsed, ok := parseClassLine(line)
			if !ok {
				continue
			}
			if parsed.class == "LAST YEAR" {
				continue
			}
			if renamed, ok := classRenames[parsed.class]; ok {
				parsed.class = renamed
			}
			records = append(records, buildRecord(parsed, period))
		}
	}

	log.Info("by-class table parsed",
		slog.String("period", period.String()),
		slog.Int("records", len(records)))
	return records
}

// number keeps the printed shape alongside the value: whether the token
// carried a decimal point decides percentage-vs-count on ambiguous rows.
type number struct {
	val     decimal.Decimal
	isFloat bool
}

type parsedLine struct {
	class   string
	nums    []number
	nullRow bool
}

var skipFragments = []string{
	"CLASS", "% of", "Dist. Spirits", "PAGE", "NABCA", "BY CLASS",
	"Bottle Sizes", "1.75 L", "ACBAN", "thgirypoC",
}

// parseClassLine splits a table line into the class label and its numbers.
// The label runs up to the first number-shaped token.
func parseClassLine(line string) (parsedLine, bool) {
	if len(line) < 5 {
		return parsedLine{}, false
	}
	for _, frag := range skipFragments {
		if strings.Contains(line, frag) {
			return parsedLine{}, false
		}
	}

	parts := strings.Fields(line)
	if len(parts) < 2 {
		return parsedLine{}, false
	}

	numStart := -1
	for i, part := range parts {
		if numberLike(part) {
			numStart = i
			break
		}
	}
	if numStart < 1 {
		return parsedLine{}, false
	}

	class := strings.TrimSpace(strings.Join(parts[:numStart], " "))
	if class == "" {
		return parsedLine{}, false
	}

	var nums []number
	for _, part := range parts[numStart:] {
		cleaned := strings.ReplaceAll(part, ",", "")
		val, err := decimal.NewFromString(cleaned)
		if err != nil {
			continue
		}
		nums = append(nums, number{val: val, isFloat: strings.Contains(cleaned, ".")})
	}

	// Discontinued classes print only a bare ".00" after the name.
	if len(nums) == 1 && nums[0].val.IsZero() {
		return parsedLine{class: class, nums: nums, nullRow: true}, true
	}
	if len(nums) < 2 {
		return parsedLine{}, false
	}
	return parsedLine{class: class, nums: nums}, true
}

// numberLike reports whether a token is digits after stripping the
// formatting characters the table uses.
func numberLike(s string) bool {
	stripped := strings.NewReplacer(",", "", ".", "", "-", "").Replace(s)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// buildRecord maps the parsed numbers onto columns. The table prints five
// row shapes, each with its own column order.
func buildRecord(p parsedLine, period engine.Period) Record {
	rec := Record{
		Period:      period,
		Class:       p.class,
		ParentClass: vocab.ParentClass(p.class),
	}

	if p.nullRow {
		rec.PctOfClass = ptr(decimal.Zero)
		rec.TotalCases = ptr(decimal.Zero)
		return rec
	}

	nums := p.nums
	switch {
	case p.class == "TOTAL ALL SPIRITS":
		// 100.00, total, then the eight size columns.
		rec.PctOfClass = ptr(decimal.NewFromInt(100))
		rec.TotalCases = count(nums, 1)
		fillSizes(&rec, nums, 2)

	case strings.Contains(p.class, "TWO YEAR SPIRITS"):
		// No leading percentage: total, then sizes.
		rec.TotalCases = count(nums, 0)
		fillSizes(&rec, nums, 1)

	case strings.Contains(p.class, "PERCENT"):
		// All-percentage summary rows carry at most two values.
		rec.PctOfClass = pct(nums, 0)
		rec.TotalCases = count(nums, 1)

	case strings.HasPrefix(p.class, "TOTAL"):
		// Share of all spirits, 100.00, total, then sizes.
		rec.PctTotal = pct(nums, 0)
		rec.PctOfClass = pct(nums, 1)
		rec.TotalCases = count(nums, 2)
		fillSizes(&rec, nums, 3)

	default:
		// Detail rows: percentage of class, total, then sizes. An
		// integer in the percentage slot means the value is missing.
		if len(nums) > 0 && nums[0].isFloat {
			rec.PctOfClass = ptr(nums[0].val)
		}
		rec.TotalCases = count(nums, 1)
		fillSizes(&rec, nums, 2)
	}
	return rec
}

// fillSizes assigns the eight bottle-size columns starting at nums[from],
// stopping wherever the line ran out of values.
func fillSizes(rec *Record, nums []number, from int) {
	targets := []**decimal.Decimal{
		&rec.Cases175L, &rec.Cases1L, &rec.Cases750ML, &rec.Cases750Trav,
		&rec.Cases375ML, &rec.Cases200ML, &rec.Cases100ML, &rec.Cases50ML,
	}
	for i, target := range targets {
		v := count(nums, from+i)
		if v == nil {
			return
		}
		*target = v
	}
}

func pct(nums []number, i int) *decimal.Decimal {
	if i >= len(nums) {
		return nil
	}
	return ptr(nums[i].val)
}

// count truncates to whole cases the way the table is loaded.
func count(nums []number, i int) *decimal.Decimal {
	if i >= len(nums) {
		return nil
	}
	return ptr(nums[i].val.Truncate(0))
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }
