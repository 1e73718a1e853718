// Package pages locates report sections inside the full monthly PDF and
// cuts them out as standalone documents. The full report runs past a
// thousand pages; OCR is only worth paying for on the section of interest.
package pages

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ErrSectionNotFound is returned when the PDF's text layer never mentions
// the section titles. Scanned-only PDFs without a text layer trigger this.
var ErrSectionNotFound = errors.New("pages: section not found in document text layer")

// Range is a 1-based inclusive page span.
type Range struct {
	Start int
	End   int
}

// Count returns the number of pages in the span.
func (r Range) Count() int { return r.End - r.Start + 1 }

func (r Range) String() string { return fmt.Sprintf("%d-%d", r.Start, r.End) }

// Scanner finds section page ranges by reading the PDF's own text layer.
type Scanner struct {
	log *slog.Logger
}

// NewScanner builds a Scanner.
func NewScanner(log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{log: log}
}

// BrandSummary locates the BRAND SUMMARY - CASE SALES section: it starts at
// the first page titled BRAND SUMMARY over ALL CONTROL states and runs until
// the TOP 100 - VENDORS section begins.
func (s *Scanner) BrandSummary(data []byte) (Range, error) {
	texts, err := pageTexts(data)
	if err != nil {
		return Range{}, err
	}
	r, ok := brandSummaryRange(texts)
	if !ok {
		return Range{}, fmt.Errorf("brand summary: %w", ErrSectionNotFound)
	}
	s.log.Info("brand summary section located",
		slog.Int("start", r.Start), slog.Int("end", r.End), slog.Int("pages", r.Count()))
	return r, nil
}

// VendorSummary locates the VENDOR SUMMARY - ALL CONTROL STATES section,
// excluding the BY CLASS and TOP 20 variants that share the title words.
func (s *Scanner) VendorSummary(data []byte) (Range, error) {
	texts, err := pageTexts(data)
	if err != nil {
		return Range{}, err
	}
	r, ok := vendorSummaryRange(texts)
	if !ok {
		return Range{}, fmt.Errorf("vendor summary: %w", ErrSectionNotFound)
	}
	s.log.Info("vendor summary section located",
		slog.Int("start", r.Start), slog.Int("end", r.End), slog.Int("pages", r.Count()))
	return r, nil
}

// brandSummaryRange works on uppercased page texts, indexed from zero.
func brandSummaryRange(texts []string) (Range, bool) {
	start := -1
	end := -1

	for i, text := range texts {
		if start < 0 {
			if strings.Contains(text, "BRAND SUMMARY") && strings.Contains(text, "ALL CONTROL") {
				start = i
			}
			continue
		}
		if strings.Contains(text, "TOP 100 - VENDORS") {
			end = i
			break
		}
		// Some issues go straight into the vendor summary. The lookahead
		// guard keeps the shared page header from ending the section on
		// its own first pages.
		if i > start+10 && strings.Contains(text, "VENDOR SUMMARY") {
			end = i
			break
		}
	}

	if start < 0 {
		return Range{}, false
	}
	if end < 0 {
		end = min(start+400, len(texts))
	}
	// The end page belongs to the next section.
	return Range{Start: start + 1, End: end}, true
}

func vendorSummaryRange(texts []string) (Range, bool) {
	start := -1
	end := -1

	for i, text := range texts {
		if !strings.Contains(text, "VENDOR SUMMARY") ||
			!strings.Contains(text, "ALL CONTROL STATES") ||
			strings.Contains(text, "BY CLASS") ||
			strings.Contains(text, "TOP 20") {
			continue
		}
		if start < 0 {
			start = i
		}
		end = i
	}

	if start < 0 {
		return Range{}, false
	}
	return Range{Start: start + 1, End: end + 1}, true
}

// pageTexts extracts each page's text layer, uppercased. Pages that fail
// text extraction come back empty rather than failing the whole scan.
func pageTexts(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pages: open pdf: %w", err)
	}

	texts := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, strings.ToUpper(text))
	}
	return texts, nil
}

// Lines extracts each page's text layer as visual lines, preserving case.
// The By Class and Top 100 tables print one record per line, so their
// parsers work on lines rather than OCR tokens. Pages without a usable
// text layer come back as empty slices.
func Lines(data []byte) ([][]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pages: open pdf: %w", err)
	}

	lines := make([][]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			lines = append(lines, nil)
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			lines = append(lines, nil)
			continue
		}
		pageLines := make([]string, 0, len(rows))
		for _, row := range rows {
			var sb strings.Builder
			for j, word := range row.Content {
				if j > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(word.S)
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				pageLines = append(pageLines, line)
			}
		}
		lines = append(lines, pageLines)
	}
	return lines, nil
}

// ExtractRange writes the span's pages into a new standalone PDF.
func ExtractRange(data []byte, r Range) ([]byte, error) {
	var out bytes.Buffer
	if err := api.Trim(bytes.NewReader(data), &out, []string{r.String()}, nil); err != nil {
		return nil, fmt.Errorf("pages: extract %s: %w", r, err)
	}
	return out.Bytes(), nil
}
