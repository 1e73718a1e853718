// Package vocab resolves OCR-damaged section labels against a controlled
// vocabulary of canonical class and vendor names. Matching runs in strict
// priority order — exact, normalization table, bounded fuzzy — so that
// valid-but-unusual labels are never silently rewritten.
package vocab

import (
	"regexp"
	"strings"
)

// PairRule joins two label fragments that only ever co-occur as one name.
type PairRule struct {
	First    string
	Second   string
	Combined string
}

// Vocabulary is the read-only set of canonical section labels plus the
// normalization table mapping known OCR variants to canonical forms.
// Build one per report profile and share it freely; it is never mutated
// after construction.
type Vocabulary struct {
	canonical map[string]struct{}
	ordered   []string // canonical entries in declaration order, for deterministic fuzzy scans
	variants  map[string]string
	suffixes  []string
	prefixes  []string
	pairs     []PairRule
	stripTail []string // header words OCR merges onto the end of label rows
}

// Config assembles a Vocabulary from its static tables.
type Config struct {
	Canonical []string
	Variants  map[string]string
	Suffixes  []string
	Prefixes  []string
	Pairs     []PairRule
	StripTail []string
}

// New builds a Vocabulary. The canonical list keeps its order so fuzzy
// matching scans entries deterministically.
func New(cfg Config) *Vocabulary {
	v := &Vocabulary{
		canonical: make(map[string]struct{}, len(cfg.Canonical)),
		ordered:   make([]string, 0, len(cfg.Canonical)),
		variants:  make(map[string]string, len(cfg.Variants)),
		suffixes:  cfg.Suffixes,
		prefixes:  cfg.Prefixes,
		pairs:     cfg.Pairs,
		stripTail: cfg.StripTail,
	}
	for _, c := range cfg.Canonical {
		c = strings.ToUpper(strings.TrimSpace(c))
		if _, dup := v.canonical[c]; dup {
			continue
		}
		v.canonical[c] = struct{}{}
		v.ordered = append(v.ordered, c)
	}
	for raw, canon := range cfg.Variants {
		v.variants[strings.ToUpper(strings.TrimSpace(raw))] = strings.ToUpper(strings.TrimSpace(canon))
	}
	return v
}

var (
	dashSpaceRe  = regexp.MustCompile(`-\s+`)
	spaceDashRe  = regexp.MustCompile(`\s+-`)
	spaceSlashRe = regexp.MustCompile(`\s+/`)
	slashSpaceRe = regexp.MustCompile(`/\s+`)
)

// Normalize canonicalizes spacing and known character misreads and applies
// the variant table. It does not guarantee the result is a known label.
func (v *Vocabulary) Normalize(text string) string {
	s := strings.ToUpper(strings.TrimSpace(text))

	for _, word := range v.stripTail {
		if strings.HasSuffix(s, " "+word) {
			s = strings.TrimSpace(s[:len(s)-len(word)-1])
		}
	}

	s = dashSpaceRe.ReplaceAllString(s, "-")
	s = spaceDashRe.ReplaceAllString(s, "-")
	s = spaceSlashRe.ReplaceAllString(s, "/")
	s = slashSpaceRe.ReplaceAllString(s, "/")

	// Textract reads the ampersand in LQR&SPC as the digit 8.
	s = strings.ReplaceAll(s, "LQR8", "LQR&")
	s = strings.ReplaceAll(s, "LQR& SPC", "LQR&SPC")

	if canon, ok := v.variants[s]; ok {
		return canon
	}
	return s
}

// Match resolves text to a canonical label. Priority: exact match, variant
// table, bounded fuzzy. The exact flag is true only for verbatim hits.
func (v *Vocabulary) Match(text string) (canonical string, exact bool, ok bool) {
	upper := strings.ToUpper(strings.TrimSpace(text))
	if upper == "" {
		return "", false, false
	}

	normalized := v.Normalize(upper)
	if normalized != upper {
		if _, known := v.canonical[normalized]; known {
			return normalized, false, true
		}
	}

	if _, known := v.canonical[upper]; known {
		return v.Normalize(upper), true, true
	}

	// Fuzzy fallback, applied only when no exact or normalized hit exists.
	// Bounded tightly: length within ±2 of the candidate and positional
	// character similarity of at least 85%, so OCR misreads resolve while
	// genuinely different labels fall through.
	for _, known := range v.ordered {
		if len(known) < 5 {
			continue
		}
		if len(upper) < len(known)-2 || len(upper) > len(known)+2 {
			continue
		}
		matches := positionalMatches(upper, known)
		if matches >= len(known)-2 && matches*100 >= len(known)*85 {
			return v.Normalize(known), false, true
		}
	}

	return "", false, false
}

// IsSuffix reports whether text continues a split label rather than naming a
// vendor or brand. Strict on purpose: "STOLLER IMPORTS" must not match just
// because IMP is a suffix token.
func (v *Vocabulary) IsSuffix(text string) bool {
	upper := strings.ToUpper(strings.TrimSpace(text))
	if upper == "" {
		return false
	}

	for _, s := range v.suffixes {
		if upper == s {
			return true
		}
		// Compound suffixes such as "SNGL MALT" or "TRIPLE SEC" may carry
		// a continuation of their own.
		if strings.ContainsAny(s, " -") &&
			(strings.HasPrefix(upper, s+" ") || strings.HasPrefix(upper, s+"-")) {
			return true
		}
	}
	return false
}

// HasPrefix reports whether text starts with a known class family prefix at
// a proper word boundary.
func (v *Vocabulary) HasPrefix(text string) bool {
	upper := strings.ToUpper(strings.TrimSpace(text))
	for _, p := range v.prefixes {
		if upper == p || strings.HasPrefix(upper, p+"-") || strings.HasPrefix(upper, p+" ") {
			return true
		}
		if strings.HasSuffix(p, "-") && strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

// Combined is the outcome of attempting to merge a split label.
type Combined struct {
	Label     string
	IsSection bool
}

// Combine merges a primary label column with an optional secondary column
// into a single section-label candidate. Strategies are tried in fixed
// order; the first that produces a plausible section wins.
func (v *Vocabulary) Combine(primary, secondary string) Combined {
	p := strings.ToUpper(strings.TrimSpace(primary))
	s := strings.ToUpper(strings.TrimSpace(secondary))

	// Hardcoded pairs, e.g. NEUTRAL GRAIN + SPIRIT.
	for _, pair := range v.pairs {
		if p == pair.First && s == pair.Second {
			return Combined{Label: pair.Combined, IsSection: true}
		}
	}

	// Dash continuation: "VODKA-CLASSIC-" + "DOM".
	if strings.HasSuffix(p, "-") && s != "" && v.IsSuffix(s) {
		joined := p + s
		if canon, _, ok := v.Match(joined); ok {
			return Combined{Label: canon, IsSection: true}
		}
		// No vocabulary hit, but the trailing dash is a structural cue we
		// trust over vocabulary completeness.
		return Combined{Label: joined, IsSection: true}
	}

	// Prefix + suffix with the three join styles. All joins are tested for
	// exact matches before any fuzzy resolution so a dash-joined cognac
	// grade is never fuzzy-matched to a shorter class first.
	if s != "" && v.IsSuffix(s) && v.HasPrefix(p) {
		joins := []string{p + "-" + s, strings.TrimSpace(p + " " + s), p + s}

		for _, j := range joins {
			if _, known := v.canonical[j]; known {
				return Combined{Label: v.Normalize(j), IsSection: true}
			}
		}
		for _, j := range joins {
			if canon, exact, ok := v.Match(j); ok && exact {
				return Combined{Label: canon, IsSection: true}
			}
		}
		for _, j := range joins {
			if canon, _, ok := v.Match(j); ok {
				return Combined{Label: canon, IsSection: true}
			}
		}
	}

	// Direct concatenation for truncated multi-row headers:
	// "CRDL-SNPS-BTRS" + "CTCH".
	if s != "" && v.HasPrefix(p) {
		if canon, _, ok := v.Match(p + s); ok {
			return Combined{Label: canon, IsSection: true}
		}
	}

	// Primary alone, only when nothing sits in the secondary column — real
	// sections never have it filled.
	if s == "" {
		if canon, _, ok := v.Match(p); ok {
			return Combined{Label: canon, IsSection: true}
		}
	}

	return Combined{Label: p, IsSection: false}
}

// positionalMatches counts positions where both strings carry the same byte.
// This is the similarity measure used for fuzzy label resolution: it rewards
// in-place OCR misreads and penalizes insertions, which is exactly the error
// model of a fixed-layout table.
func positionalMatches(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	matches := 0
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			matches++
		}
	}
	return matches
}
