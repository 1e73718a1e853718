package engine

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// HeaderConfig lists the text cues identifying header and page-furniture
// rows. Phrases match as substrings anywhere in the row; Words match at word
// boundaries only and additionally require the label column to look like a
// header cell, so brand names such as CASTLE BRANDS survive the filter.
type HeaderConfig struct {
	Phrases      []string
	Words        []string
	Col1Labels   []string
	Col1Contains []string
}

// HeaderDetector decides whether a reconstructed row belongs to the table
// header rather than the data body. Safe for concurrent use.
type HeaderDetector struct {
	phrases      *ahocorasick.Matcher
	words        []*regexp.Regexp
	col1Labels   map[string]struct{}
	col1Contains []string
}

// NewHeaderDetector compiles the config into a detector. Matching is
// case-insensitive; all cues are uppercased at build time.
func NewHeaderDetector(cfg HeaderConfig) *HeaderDetector {
	d := &HeaderDetector{
		col1Labels:   make(map[string]struct{}, len(cfg.Col1Labels)),
		col1Contains: make([]string, 0, len(cfg.Col1Contains)),
	}

	if len(cfg.Phrases) > 0 {
		upper := make([]string, len(cfg.Phrases))
		for i, p := range cfg.Phrases {
			upper[i] = strings.ToUpper(p)
		}
		d.phrases = ahocorasick.NewStringMatcher(upper)
	}

	for _, w := range cfg.Words {
		d.words = append(d.words, regexp.MustCompile(`\b`+regexp.QuoteMeta(strings.ToUpper(w))+`\b`))
	}
	for _, l := range cfg.Col1Labels {
		d.col1Labels[strings.ToUpper(l)] = struct{}{}
	}
	for _, c := range cfg.Col1Contains {
		d.col1Contains = append(d.col1Contains, strings.ToUpper(c))
	}
	return d
}

// IsHeader reports whether the row is header or furniture text. rowText is
// the full row joined left to right; col1 is the text of the label column.
func (d *HeaderDetector) IsHeader(rowText, col1 string) bool {
	upper := strings.ToUpper(rowText)

	if d.phrases != nil && len(d.phrases.MatchThreadSafe([]byte(upper))) > 0 {
		return true
	}

	if len(d.words) == 0 {
		return false
	}
	for _, re := range d.words {
		if !re.MatchString(upper) {
			continue
		}
		// Word cues alone are ambiguous (YEAR hits "7 YEAR OLD" brands),
		// so the label column must also look like a header cell.
		c := strings.ToUpper(strings.TrimSpace(col1))
		if _, ok := d.col1Labels[c]; ok {
			return true
		}
		for _, sub := range d.col1Contains {
			if strings.Contains(c, sub) {
				return true
			}
		}
	}
	return false
}
