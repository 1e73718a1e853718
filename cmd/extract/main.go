// Command extract pulls NABCA monthly report sections out of their PDFs and
// loads the reconstructed rows into PostgreSQL and flat files.
//
// Usage:
//
//	extract [flags] PERIOD [PERIOD...]
//	extract [flags] all
//	extract -watch
//
// Periods use YYYY-MM form and must be catalogued months.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spiritsdata/nabca-extract/internal/domain/catalog"
	"github.com/spiritsdata/nabca-extract/internal/domain/engine"
	"github.com/spiritsdata/nabca-extract/internal/domain/pipeline"
	"github.com/spiritsdata/nabca-extract/pkg/config"
	"github.com/spiritsdata/nabca-extract/pkg/cron"
)

func main() {
	var (
		reportFlag = flag.String("report", "both", "report to extract: brand, vendor, byclass, top100, both or all")
		skipDB     = flag.Bool("no-db", false, "skip the database load, write files only")
		watch      = flag.Bool("watch", false, "run the scheduler and extract new months as they appear")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(logger, *reportFlag, *skipDB, *watch, flag.Args()); err != nil {
		logger.Error("extract failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, reportFlag string, skipDB, watch bool, args []string) error {
	reports, err := parseReports(reportFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := InitDependencies(ctx, cfg, logger, skipDB)
	if err != nil {
		return err
	}
	defer deps.Cleanup()

	if watch {
		return runWatch(ctx, deps)
	}

	periods, runAll, err := parsePeriods(args)
	if err != nil {
		return err
	}

	var summaries []pipeline.Summary
	if runAll {
		summaries, err = deps.Pipeline.RunAll(ctx, reports)
	} else {
		for _, period := range periods {
			var s []pipeline.Summary
			s, err = deps.Pipeline.Run(ctx, period, reports)
			summaries = append(summaries, s...)
			if err != nil {
				break
			}
		}
	}

	if err == nil && len(summaries) > 0 {
		if werr := deps.Pipeline.WriteCombined(); werr != nil {
			return werr
		}
	}

	for _, s := range summaries {
		logger.Info("done",
			slog.String("report", string(s.Report)),
			slog.String("period", s.Period.String()),
			slog.String("pages", s.Pages.String()),
			slog.Int("records", s.Records),
			slog.Int("mismatches", s.Mismatches),
			slog.Int64("loaded", s.Loaded),
			slog.String("csv", s.CSVPath))
	}
	return err
}

func runWatch(ctx context.Context, deps *Dependencies) error {
	if deps.Repo == nil {
		return fmt.Errorf("watch mode needs the database, drop -no-db")
	}

	sched := cron.NewScheduler(deps.Pipeline, deps.Store, deps.Repo,
		deps.Config.Extract.ReportsDir, deps.Config.Schedule.Spec, deps.Logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	sched.RunNow()

	<-ctx.Done()
	<-sched.Stop().Done()
	return nil
}

func parseReports(s string) ([]pipeline.Report, error) {
	switch s {
	case "brand":
		return []pipeline.Report{pipeline.ReportBrand}, nil
	case "vendor":
		return []pipeline.Report{pipeline.ReportVendor}, nil
	case "byclass":
		return []pipeline.Report{pipeline.ReportByClass}, nil
	case "top100":
		return []pipeline.Report{pipeline.ReportTop100}, nil
	case "both":
		return []pipeline.Report{pipeline.ReportBrand, pipeline.ReportVendor}, nil
	case "all":
		return []pipeline.Report{
			pipeline.ReportBrand, pipeline.ReportVendor,
			pipeline.ReportByClass, pipeline.ReportTop100,
		}, nil
	default:
		return nil, fmt.Errorf("unknown report %q, want brand, vendor, byclass, top100, both or all", s)
	}
}

func parsePeriods(args []string) ([]engine.Period, bool, error) {
	if len(args) == 0 {
		return nil, false, fmt.Errorf("no periods given, pass YYYY-MM arguments or \"all\"")
	}
	if len(args) == 1 && args[0] == "all" {
		return nil, true, nil
	}

	periods := make([]engine.Period, 0, len(args))
	for _, arg := range args {
		p, err := catalog.ParsePeriod(arg)
		if err != nil {
			return nil, false, err
		}
		periods = append(periods, p)
	}
	return periods, false, nil
}
