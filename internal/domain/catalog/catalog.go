// Package catalog maps monthly report issues to their distribution
// filenames. The publisher names each file 631_9L_MMYY; the list is kept
// explicit because the naming is not quite mechanical (the January 2025
// issue shipped with a lowercase extension).
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spiritsdata/nabca-extract/internal/domain/engine"
)

var reportFiles = map[engine.Period]string{
	{Year: 2024, Month: 7}:  "631_9L_0724.PDF",
	{Year: 2024, Month: 8}:  "631_9L_0824.PDF",
	{Year: 2024, Month: 9}:  "631_9L_0924.PDF",
	{Year: 2024, Month: 10}: "631_9L_1024.PDF",
	{Year: 2024, Month: 11}: "631_9L_1124.PDF",
	{Year: 2024, Month: 12}: "631_9L_1224.PDF",
	{Year: 2025, Month: 1}:  "631_9L_0125.pdf",
	{Year: 2025, Month: 2}:  "631_9L_0225.PDF",
	{Year: 2025, Month: 3}:  "631_9L_0325.PDF",
	{Year: 2025, Month: 4}:  "631_9L_0425.PDF",
	{Year: 2025, Month: 5}:  "631_9L_0525.PDF",
	{Year: 2025, Month: 6}:  "631_9L_0625.PDF",
	{Year: 2025, Month: 7}:  "631_9L_0725.PDF",
	{Year: 2025, Month: 8}:  "631_9L_0825.PDF",
	{Year: 2025, Month: 9}:  "631_9L_0925.PDF",
	{Year: 2025, Month: 10}: "631_9L_1025.PDF",
	{Year: 2025, Month: 11}: "631_9L_1125.PDF",
	{Year: 2025, Month: 12}: "631_9L_1225.PDF",
}

// Filename returns the distribution filename for the period.
func Filename(p engine.Period) (string, bool) {
	name, ok := reportFiles[p]
	return name, ok
}

// PeriodFor resolves a distribution filename back to its period. Matching is
// case-insensitive.
func PeriodFor(filename string) (engine.Period, bool) {
	upper := strings.ToUpper(strings.TrimSpace(filename))
	for p, name := range reportFiles {
		if strings.ToUpper(name) == upper {
			return p, true
		}
	}
	return engine.Period{}, false
}

// Periods returns every catalogued period in chronological order.
func Periods() []engine.Period {
	periods := make([]engine.Period, 0, len(reportFiles))
	for p := range reportFiles {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool {
		if periods[i].Year != periods[j].Year {
			return periods[i].Year < periods[j].Year
		}
		return periods[i].Month < periods[j].Month
	})
	return periods
}

// ParsePeriod parses a YYYY-MM argument into a catalogued period.
func ParsePeriod(s string) (engine.Period, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return engine.Period{}, fmt.Errorf("catalog: invalid period %q, want YYYY-MM", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return engine.Period{}, fmt.Errorf("catalog: invalid year in %q", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return engine.Period{}, fmt.Errorf("catalog: invalid month in %q", s)
	}

	p := engine.Period{Year: year, Month: month}
	if _, ok := reportFiles[p]; !ok {
		return engine.Period{}, fmt.Errorf("catalog: no report issue for %s", p)
	}
	return p, nil
}
