// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"path"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/spiritsdata/nabca-extract/internal/domain/catalog"
	"github.com/spiritsdata/nabca-extract/internal/domain/engine"
	"github.com/spiritsdata/nabca-extract/internal/domain/pipeline"
	"github.com/spiritsdata/nabca-extract/pkg/storage"
)

// LoadedPeriods reports which months are already in the database per table.
type LoadedPeriods interface {
	LoadedPeriods(ctx context.Context, table string) ([]engine.Period, error)
}

// Scheduler polls for newly published monthly reports and runs the pipeline
// for months not yet loaded.
type Scheduler struct {
	cron       *cron.Cron
	pipe       *pipeline.Pipeline
	store      storage.Storage
	loaded     LoadedPeriods
	reportsDir string
	spec       string
	logger     *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(pipe *pipeline.Pipeline, store storage.Storage, loaded LoadedPeriods, reportsDir, spec string, logger *slog.Logger) *Scheduler {
	// Standard 5-field format, no seconds
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:       c,
		pipe:       pipe,
		store:      store,
		loaded:     loaded,
		reportsDir: reportsDir,
		spec:       spec,
		logger:     logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.extractNewMonths)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.String("spec", s.spec),
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the new-month check.
func (s *Scheduler) RunNow() {
	go s.extractNewMonths()
}

// extractNewMonths runs the pipeline for catalogued months whose PDF is
// present in storage but whose rows are not loaded yet.
func (s *Scheduler) extractNewMonths() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	s.logger.Info("checking for new monthly reports")

	pending, err := s.pendingPeriods(ctx)
	if err != nil {
		s.logger.Error("could not determine pending months", slog.Any("error", err))
		return
	}
	if len(pending) == 0 {
		s.logger.Info("no new months to extract")
		return
	}

	for _, period := range pending {
		summaries, err := s.pipe.Run(ctx, period, []pipeline.Report{
			pipeline.ReportBrand, pipeline.ReportVendor,
			pipeline.ReportByClass, pipeline.ReportTop100,
		})
		if err != nil {
			s.logger.Error("scheduled extraction failed",
				slog.String("period", period.String()),
				slog.Any("error", err))
			continue
		}
		for _, sum := range summaries {
			s.logger.Info("scheduled extraction complete",
				slog.String("report", string(sum.Report)),
				slog.String("period", sum.Period.String()),
				slog.Int("records", sum.Records),
				slog.Int64("loaded", sum.Loaded))
		}
	}
}

func (s *Scheduler) pendingPeriods(ctx context.Context) ([]engine.Period, error) {
	loaded, err := s.loaded.LoadedPeriods(ctx, "raw_brand_summary")
	if err != nil {
		return nil, err
	}
	have := make(map[engine.Period]bool, len(loaded))
	for _, p := range loaded {
		have[p] = true
	}

	var pending []engine.Period
	for _, period := range catalog.Periods() {
		if have[period] {
			continue
		}
		filename, _ := catalog.Filename(period)
		ok, err := s.store.Exists(ctx, path.Join(s.reportsDir, filename))
		if err != nil {
			return nil, err
		}
		if ok {
			pending = append(pending, period)
		}
	}
	return pending, nil
}
