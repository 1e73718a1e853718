// Package records persists extracted report rows to PostgreSQL. Loads are
// idempotent per report and month: the month's rows are deleted and bulk
// copied inside one transaction, so a re-run replaces rather than duplicates.
package records

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/spiritsdata/nabca-extract/internal/domain/engine"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository writes brand and vendor summary rows.
type Repository struct {
	db  DB
	log *slog.Logger
}

// NewRepository creates a repository backed by db.
func NewRepository(db DB, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.Default()
	}
	return &Repository{db: db, log: log}
}

var brandColumns = []string{
	"run_id", "report_year", "report_month", "page",
	"class", "parent_class", "brand", "vendor",
	engine.ColL12MCasesTY, engine.ColL12MCasesLY, engine.ColL12MPctChange,
	engine.ColYTDCasesTY, engine.ColCurrMonthCases,
	engine.ColCurr175L, engine.ColCurr1L, engine.ColCurr750ML, engine.ColCurr750MLTrav,
	engine.ColCurr375ML, engine.ColCurr200ML, engine.ColCurr100ML, engine.ColCurr50ML,
}

var vendorColumns = []string{
	"run_id", "report_year", "report_month", "page",
	"vendor", "brand", "class",
	engine.ColL12MThisYear, engine.ColL12MPriorYear,
	engine.ColYTDThisYear, engine.ColYTDLastYear,
	engine.ColCurrThisYear, engine.ColCurrLastYear,
}

// ReplaceBrandSummary swaps out one month of brand-summary rows and returns
// the number of rows written.
func (r *Repository) ReplaceBrandSummary(ctx context.Context, runID uuid.UUID, period engine.Period, records []engine.Record) (int64, error) {
	return r.replace(ctx, "raw_brand_summary", brandColumns, period, brandTuples(runID, records))
}

// ReplaceVendorSummary swaps out one month of vendor-summary rows and returns
// the number of rows written.
func (r *Repository) ReplaceVendorSummary(ctx context.Context, runID uuid.UUID, period engine.Period, records []engine.Record) (int64, error) {
	return r.replace(ctx, "raw_vendor_summary", vendorColumns, period, vendorTuples(runID, records))
}

func (r *Repository) replace(ctx context.Context, table string, columns []string, period engine.Period, rows [][]any) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("records: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	del := fmt.Sprintf("DELETE FROM %s WHERE report_year = $1 AND report_month = $2", table)
	tag, err := tx.Exec(ctx, del, period.Year, period.Month)
	if err != nil {
		return 0, fmt.Errorf("records: delete %s %s: %w", table, period, err)
	}
	if tag.RowsAffected() > 0 {
		r.log.Info("replaced prior load",
			slog.String("table", table),
			slog.String("period", period.String()),
			slog.Int64("deleted", tag.RowsAffected()))
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("records: copy into %s: %w", table, err)
	}
	if copied != int64(len(rows)) {
		return 0, fmt.Errorf("records: copy into %s wrote %d of %d rows", table, copied, len(rows))
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("records: commit: %w", err)
	}
	return copied, nil
}

// Run is one pipeline execution over a single report and month.
type Run struct {
	ID         uuid.UUID
	Report     string
	Period     engine.Period
	SourceFile string
	Records    int
	Mismatches int
	StartedAt  time.Time
	FinishedAt time.Time
}

// RecordRun stores run metadata for auditing reloads.
func (r *Repository) RecordRun(ctx context.Context, run Run) error {
	query := `
		INSERT INTO extraction_runs (id, report, report_year, report_month, source_file, records, mismatches, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, query,
		run.ID, run.Report, run.Period.Year, run.Period.Month,
		run.SourceFile, run.Records, run.Mismatches, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("records: record run: %w", err)
	}
	return nil
}

// KnownVendors returns the distinct vendor names seen in prior vendor-summary
// loads, used to seed truncation repair for later months.
func (r *Repository) KnownVendors(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT vendor FROM raw_vendor_summary ORDER BY vendor`)
	if err != nil {
		return nil, fmt.Errorf("records: known vendors: %w", err)
	}
	defer rows.Close()

	var vendors []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("records: scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("records: known vendors: %w", err)
	}
	return vendors, nil
}

// LoadedPeriods reports which months already have rows in the given table.
func (r *Repository) LoadedPeriods(ctx context.Context, table string) ([]engine.Period, error) {
	query := fmt.Sprintf(
		"SELECT DISTINCT report_year, report_month FROM %s ORDER BY report_year, report_month", table)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("records: loaded periods: %w", err)
	}
	defer rows.Close()

	var periods []engine.Period
	for rows.Next() {
		var p engine.Period
		if err := rows.Scan(&p.Year, &p.Month); err != nil {
			return nil, fmt.Errorf("records: scan period: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("records: loaded periods: %w", err)
	}
	return periods, nil
}

func brandTuples(runID uuid.UUID, records []engine.Record) [][]any {
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []any{
			runID, rec.Period.Year, rec.Period.Month, rec.Page,
			rec.Class, rec.ParentClass, rec.Brand, rec.Vendor,
			numeric(rec, engine.ColL12MCasesTY), numeric(rec, engine.ColL12MCasesLY),
			numeric(rec, engine.ColL12MPctChange),
			numeric(rec, engine.ColYTDCasesTY), numeric(rec, engine.ColCurrMonthCases),
			numeric(rec, engine.ColCurr175L), numeric(rec, engine.ColCurr1L),
			numeric(rec, engine.ColCurr750ML), numeric(rec, engine.ColCurr750MLTrav),
			numeric(rec, engine.ColCurr375ML), numeric(rec, engine.ColCurr200ML),
			numeric(rec, engine.ColCurr100ML), numeric(rec, engine.ColCurr50ML),
		})
	}
	return rows
}

func vendorTuples(runID uuid.UUID, records []engine.Record) [][]any {
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []any{
			runID, rec.Period.Year, rec.Period.Month, rec.Page,
			rec.Vendor, rec.Brand, rec.Class,
			numeric(rec, engine.ColL12MThisYear), numeric(rec, engine.ColL12MPriorYear),
			numeric(rec, engine.ColYTDThisYear), numeric(rec, engine.ColYTDLastYear),
			numeric(rec, engine.ColCurrThisYear), numeric(rec, engine.ColCurrLastYear),
		})
	}
	return rows
}

func numeric(rec engine.Record, col string) *decimal.Decimal {
	if v, ok := rec.Values[col]; ok {
		return &v
	}
	return nil
}
