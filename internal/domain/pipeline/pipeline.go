// Package pipeline runs the end-to-end extraction for one report month:
// fetch PDF, find the section pages, OCR them, reconstruct records, then
// export files and load the database.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/spiritsdata/nabca-extract/internal/domain/byclass"
	"github.com/spiritsdata/nabca-extract/internal/domain/catalog"
	"github.com/spiritsdata/nabca-extract/internal/domain/engine"
	"github.com/spiritsdata/nabca-extract/internal/domain/export"
	"github.com/spiritsdata/nabca-extract/internal/domain/ocr"
	"github.com/spiritsdata/nabca-extract/internal/domain/pages"
	"github.com/spiritsdata/nabca-extract/internal/domain/records"
	"github.com/spiritsdata/nabca-extract/internal/domain/top100"
	"github.com/spiritsdata/nabca-extract/internal/domain/vocab"
	"github.com/spiritsdata/nabca-extract/pkg/storage"
)

// Report selects which reports a run covers. The brand and vendor summaries
// are OCR'd; the by-class and top-100 tables come straight from the PDF's
// text layer.
type Report string

const (
	ReportBrand   Report = "brand_summary"
	ReportVendor  Report = "vendor_summary"
	ReportByClass Report = "current_month_by_class"
	ReportTop100  Report = "top100_vendors"
)

// Repository is the persistence surface the pipeline needs. Nil disables
// database loading.
type Repository interface {
	ReplaceBrandSummary(ctx context.Context, runID uuid.UUID, period engine.Period, recs []engine.Record) (int64, error)
	ReplaceVendorSummary(ctx context.Context, runID uuid.UUID, period engine.Period, recs []engine.Record) (int64, error)
	ReplaceCurrentMonth(ctx context.Context, runID uuid.UUID, period engine.Period, recs []byclass.Record) (int64, error)
	ReplaceTop100(ctx context.Context, runID uuid.UUID, period engine.Period, recs []top100.Record) (int64, error)
	RecordRun(ctx context.Context, run records.Run) error
	KnownVendors(ctx context.Context) ([]string, error)
}

// Pipeline wires storage, page scanning, OCR and the reconstruction engine.
type Pipeline struct {
	store      storage.Storage
	source     ocr.TokenSource
	scanner    *pages.Scanner
	writer     *export.Writer
	repo       Repository
	reportsDir string
	log        *slog.Logger

	// accumulated across Run calls for the combined review files
	brandRecords  []engine.Record
	vendorRecords []engine.Record
	brandPeriods  []engine.Period
	vendorPeriods []engine.Period
}

// Options configures a Pipeline.
type Options struct {
	Store      storage.Storage
	Source     ocr.TokenSource
	Writer     *export.Writer
	Repo       Repository
	ReportsDir string
	Log        *slog.Logger
}

// New builds a pipeline.
func New(opts Options) *Pipeline {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		store:      opts.Store,
		source:     opts.Source,
		scanner:    pages.NewScanner(log),
		writer:     opts.Writer,
		repo:       opts.Repo,
		reportsDir: opts.ReportsDir,
		log:        log,
	}
}

// Summary describes one completed report run.
type Summary struct {
	Report     Report
	Period     engine.Period
	SourceFile string
	Pages      pages.Range
	Records    int
	Mismatches int
	CSVPath    string
	Loaded     int64
}

// Run processes the given reports for one period.
func (p *Pipeline) Run(ctx context.Context, period engine.Period, reports []Report) ([]Summary, error) {
	filename, ok := catalog.Filename(period)
	if !ok {
		return nil, fmt.Errorf("pipeline: no report catalogued for %s", period)
	}

	raw, err := p.fetchPDF(ctx, filename)
	if err != nil {
		return nil, err
	}

	var summaries []Summary
	for _, report := range reports {
		var s *Summary
		var err error
		switch report {
		case ReportByClass, ReportTop100:
			s, err = p.runTextReport(ctx, report, period, filename, raw)
		default:
			s, err = p.runReport(ctx, report, period, filename, raw)
		}
		if err != nil {
			return summaries, fmt.Errorf("pipeline: %s %s: %w", report, period, err)
		}
		summaries = append(summaries, *s)
	}
	return summaries, nil
}

func (p *Pipeline) fetchPDF(ctx context.Context, filename string) ([]byte, error) {
	key := path.Join(p.reportsDir, filename)
	rc, err := p.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("pipeline: fetch %s: %w", key, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read %s: %w", key, err)
	}
	p.log.Info("report fetched", slog.String("key", key), slog.Int("bytes", len(raw)))
	return raw, nil
}

func (p *Pipeline) runReport(ctx context.Context, report Report, period engine.Period, filename string, raw []byte) (*Summary, error) {
	started := time.Now()

	rng, profile, err := p.sectionFor(ctx, report, raw)
	if err != nil {
		return nil, err
	}
	p.log.Info("section located",
		slog.String("report", string(report)),
		slog.String("pages", rng.String()),
		slog.Int("count", rng.Count()))

	subset, err := pages.ExtractRange(raw, rng)
	if err != nil {
		return nil, err
	}

	subsetKey := fmt.Sprintf("subsets/%s_%s.pdf", report, period)
	if err := p.store.Put(ctx, subsetKey, "application/pdf", bytes.NewReader(subset)); err != nil {
		return nil, err
	}

	tokens, err := p.source.Analyze(ctx, subsetKey)
	if err != nil {
		return nil, err
	}

	result, err := engine.New(profile, p.log).Extract(tokens, period)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Report:     report,
		Period:     period,
		SourceFile: filename,
		Pages:      rng,
		Records:    len(result.Records),
		Mismatches: len(result.Mismatches),
	}

	if p.writer != nil {
		csvPath, err := p.exportCSV(report, period, result.Records)
		if err != nil {
			return nil, err
		}
		summary.CSVPath = csvPath
	}

	switch report {
	case ReportBrand:
		p.brandRecords = append(p.brandRecords, result.Records...)
		p.brandPeriods = append(p.brandPeriods, period)
	case ReportVendor:
		p.vendorRecords = append(p.vendorRecords, result.Records...)
		p.vendorPeriods = append(p.vendorPeriods, period)
	}

	if p.repo != nil {
		loaded, err := p.persist(ctx, report, period, filename, result, started)
		if err != nil {
			return nil, err
		}
		summary.Loaded = loaded
	}

	p.log.Info("report extracted",
		slog.String("report", string(report)),
		slog.String("period", period.String()),
		slog.Int("records", summary.Records),
		slog.Int("mismatches", summary.Mismatches),
		slog.Int64("loaded", summary.Loaded),
		slog.Duration("took", time.Since(started)))
	return summary, nil
}

// runTextReport handles the tables that print one record per text-layer
// line: no page subset, no OCR, just the document's own text.
func (p *Pipeline) runTextReport(ctx context.Context, report Report, period engine.Period, filename string, raw []byte) (*Summary, error) {
	started := time.Now()

	lines, err := pages.Lines(raw)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Report:     report,
		Period:     period,
		SourceFile: filename,
	}

	switch report {
	case ReportByClass:
		recs := byclass.Parse(lines, period, p.log)
		summary.Records = len(recs)
		if p.writer != nil {
			csvPath, err := p.writer.ByClassCSV(period, recs)
			if err != nil {
				return nil, err
			}
			summary.CSVPath = csvPath
		}
		if p.repo != nil {
			runID := uuid.New()
			loaded, err := p.repo.ReplaceCurrentMonth(ctx, runID, period, recs)
			if err != nil {
				return nil, err
			}
			if err := p.recordRun(ctx, runID, report, period, filename, len(recs), started); err != nil {
				return nil, err
			}
			summary.Loaded = loaded
		}

	case ReportTop100:
		recs := top100.Parse(lines, period, p.log)
		summary.Records = len(recs)
		if p.writer != nil {
			csvPath, err := p.writer.Top100CSV(period, recs)
			if err != nil {
				return nil, err
			}
			summary.CSVPath = csvPath
		}
		if p.repo != nil {
			runID := uuid.New()
			loaded, err := p.repo.ReplaceTop100(ctx, runID, period, recs)
			if err != nil {
				return nil, err
			}
			if err := p.recordRun(ctx, runID, report, period, filename, len(recs), started); err != nil {
				return nil, err
			}
			summary.Loaded = loaded
		}
	}

	p.log.Info("report extracted",
		slog.String("report", string(report)),
		slog.String("period", period.String()),
		slog.Int("records", summary.Records),
		slog.Int64("loaded", summary.Loaded),
		slog.Duration("took", time.Since(started)))
	return summary, nil
}

func (p *Pipeline) recordRun(ctx context.Context, runID uuid.UUID, report Report, period engine.Period, filename string, count int, started time.Time) error {
	return p.repo.RecordRun(ctx, records.Run{
		ID:         runID,
		Report:     string(report),
		Period:     period,
		SourceFile: filename,
		Records:    count,
		StartedAt:  started,
		FinishedAt: time.Now(),
	})
}

func (p *Pipeline) sectionFor(ctx context.Context, report Report, raw []byte) (pages.Range, engine.Profile, error) {
	switch report {
	case ReportBrand:
		rng, err := p.scanner.BrandSummary(raw)
		return rng, engine.BrandSummary(), err
	case ReportVendor:
		rng, err := p.scanner.VendorSummary(raw)
		if err != nil {
			return rng, engine.Profile{}, err
		}
		return rng, engine.VendorSummary(p.vendorIndex(ctx)), nil
	default:
		return pages.Range{}, engine.Profile{}, fmt.Errorf("unknown report %q", report)
	}
}

// vendorIndex seeds truncation repair with vendor names from earlier loads.
// An empty index just means no repairs happen on the first run.
func (p *Pipeline) vendorIndex(ctx context.Context) *vocab.VendorIndex {
	if p.repo == nil {
		return vocab.NewVendorIndex(nil)
	}
	vendors, err := p.repo.KnownVendors(ctx)
	if err != nil {
		p.log.Warn("could not load known vendors", slog.Any("error", err))
		return vocab.NewVendorIndex(nil)
	}
	return vocab.NewVendorIndex(vendors)
}

func (p *Pipeline) exportCSV(report Report, period engine.Period, recs []engine.Record) (string, error) {
	switch report {
	case ReportBrand:
		return p.writer.BrandSummaryCSV(period, recs)
	default:
		return p.writer.VendorSummaryCSV(period, recs)
	}
}

func (p *Pipeline) persist(ctx context.Context, report Report, period engine.Period, filename string, result *engine.Result, started time.Time) (int64, error) {
	runID := uuid.New()

	var loaded int64
	var err error
	switch report {
	case ReportBrand:
		loaded, err = p.repo.ReplaceBrandSummary(ctx, runID, period, result.Records)
	default:
		loaded, err = p.repo.ReplaceVendorSummary(ctx, runID, period, result.Records)
	}
	if err != nil {
		return 0, err
	}

	run := records.Run{
		ID:         runID,
		Report:     string(report),
		Period:     period,
		SourceFile: filename,
		Records:    len(result.Records),
		Mismatches: len(result.Mismatches),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if err := p.repo.RecordRun(ctx, run); err != nil {
		return 0, err
	}
	return loaded, nil
}

// WriteCombined writes the all-months CSVs and the per-report workbooks from
// every record extracted so far. Call after the final Run.
func (p *Pipeline) WriteCombined() error {
	if p.writer == nil {
		return nil
	}

	if len(p.brandRecords) > 0 {
		if _, err := p.writer.CombinedBrandCSV(p.brandRecords); err != nil {
			return err
		}
		byPeriod := groupByPeriod(p.brandRecords)
		if _, err := p.writer.Workbook("brand_summary.xlsx", export.BrandColumns(), byPeriod, p.brandPeriods); err != nil {
			return err
		}
	}
	if len(p.vendorRecords) > 0 {
		if _, err := p.writer.CombinedVendorCSV(p.vendorRecords); err != nil {
			return err
		}
		byPeriod := groupByPeriod(p.vendorRecords)
		if _, err := p.writer.Workbook("vendor_summary.xlsx", export.VendorColumns(), byPeriod, p.vendorPeriods); err != nil {
			return err
		}
	}
	return nil
}

func groupByPeriod(recs []engine.Record) map[engine.Period][]engine.Record {
	byPeriod := make(map[engine.Period][]engine.Record)
	for _, r := range recs {
		byPeriod[r.Period] = append(byPeriod[r.Period], r)
	}
	return byPeriod
}

// RunAll processes every catalogued period in order, skipping months whose
// report is missing from storage. A failing month does not stop the backfill:
// the error is logged, the period is kept aside, and the remaining months
// still run. The collected failures come back as a single joined error.
func (p *Pipeline) RunAll(ctx context.Context, reports []Report) ([]Summary, error) {
	var all []Summary
	var failures []error
	for _, period := range catalog.Periods() {
		filename, _ := catalog.Filename(period)
		ok, err := p.store.Exists(ctx, path.Join(p.reportsDir, filename))
		if err != nil {
			return all, err
		}
		if !ok {
			p.log.Warn("report missing, skipping",
				slog.String("period", period.String()),
				slog.String("file", filename))
			continue
		}
		summaries, err := p.Run(ctx, period, reports)
		if err != nil {
			p.log.Error("month failed, continuing",
				slog.String("period", period.String()),
				slog.String("file", filename),
				slog.String("error", err.Error()))
			failures = append(failures, err)
			continue
		}
		all = append(all, summaries...)
	}
	return all, errors.Join(failures...)
}
