package vocab

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// classTruncationPrefixes are fragments the OCR produces when a long-form
// class name runs past the column edge and gets cut mid-word.
var classTruncationPrefixes = []string{
	"WHIS", "WHISKE", "BOURBO", "BOUR", "BRAND", "BRAN",
	"FLAVO", "FLAVOR", "VOD", "VODKA", "TEQU", "TEQUIL",
	"LIQUEU", "LIQUE", "SCOTC", "SCOT", "COCK", "COCKTA",
	"PREPARE", "PREPAR", "SINGLE", "STRAIG", "CREAM", "CREA",
	"IMPORT", "AMERIC", "CANAD", "IRISH", "TENNE", "TENNESSE",
	"JAPAN", "MEXI", "LIGHT", "DARK", "FLAV",
	"SPICE", "GRAIN", "NEUTR", "MISC", "ROCK", "TRIP",
}

// IsTruncated reports whether text looks like a label cut off mid-word:
// it is not a known label, and it is either very short or matches a
// truncation fragment at a word boundary.
func (v *Vocabulary) IsTruncated(text string) bool {
	upper := strings.ToUpper(strings.TrimSpace(text))
	if upper == "" {
		return false
	}
	if _, known := v.canonical[upper]; known {
		return false
	}
	if len(upper) < 4 {
		return true
	}
	for _, p := range classTruncationPrefixes {
		if upper == p || strings.HasPrefix(upper, p+" ") {
			return true
		}
	}
	return false
}

// RepairTruncated resolves a truncated label against the vocabulary: prefix
// completion first, then ranked fuzzy matching with a tight distance bound.
// Returns the input unchanged when no candidate is convincing.
func (v *Vocabulary) RepairTruncated(text string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(text))
	if upper == "" {
		return text, false
	}

	for _, known := range v.ordered {
		if strings.HasPrefix(known, upper) {
			return known, true
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(upper, v.ordered)
	if len(ranks) == 0 {
		return upper, false
	}
	sort.Sort(ranks)
	best := ranks[0]
	// Levenshtein distance within ~30% of the candidate length, matching
	// the tolerance that works for mid-word page-edge cuts.
	if best.Distance*10 <= len(best.Target)*3 {
		return best.Target, true
	}
	return upper, false
}

// VendorIndex resolves truncated vendor names against the set of vendors
// already seen in processed reports. Unlike class names there is no closed
// list, so the index is rebuilt from prior extraction runs.
type VendorIndex struct {
	names []string
	set   map[string]struct{}
}

// NewVendorIndex builds an index from known vendor names. Duplicates and
// blanks are dropped; lookup is case-insensitive.
func NewVendorIndex(names []string) *VendorIndex {
	idx := &VendorIndex{set: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.ToUpper(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, dup := idx.set[n]; dup {
			continue
		}
		idx.set[n] = struct{}{}
		idx.names = append(idx.names, n)
	}
	sort.Strings(idx.names)
	return idx
}

// Len returns the number of indexed vendors.
func (idx *VendorIndex) Len() int { return len(idx.names) }

// Known reports whether name matches an indexed vendor exactly.
func (idx *VendorIndex) Known(name string) bool {
	_, ok := idx.set[strings.ToUpper(strings.TrimSpace(name))]
	return ok
}

// IsTruncated reports whether name looks cut off: not known, and either
// very short or a strict prefix of a known vendor with most of the name
// missing.
func (idx *VendorIndex) IsTruncated(name string) bool {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" || len(idx.names) == 0 {
		return false
	}
	if _, ok := idx.set[upper]; ok {
		return false
	}
	if len(upper) < 4 {
		return true
	}
	for _, vendor := range idx.names {
		if strings.HasPrefix(vendor, upper) && len(vendor) > len(upper)+3 {
			return true
		}
	}
	return false
}

// Repair resolves a truncated vendor name. Prefix completion wins outright;
// otherwise the fuzzy ranking must be very close, since two distinct vendors
// often share long common stems (STOLI GROUP vs STOLLER IMPORTS).
func (idx *VendorIndex) Repair(name string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" || len(idx.names) == 0 {
		return name, false
	}

	for _, vendor := range idx.names {
		if strings.HasPrefix(vendor, upper) {
			return vendor, true
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(upper, idx.names)
	if len(ranks) == 0 {
		return upper, false
	}
	sort.Sort(ranks)
	best := ranks[0]
	if best.Distance*5 <= len(best.Target) {
		return best.Target, true
	}
	return upper, false
}
