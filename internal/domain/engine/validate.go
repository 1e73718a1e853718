package engine

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

// ValidatorConfig tunes subtotal verification.
type ValidatorConfig struct {
	// Columns to compare between the running section sums and the TOTAL row.
	Columns []string

	// StrictPct is the rounding tolerance in percent. Differences at or
	// below it are considered exact.
	StrictPct float64

	// AdvisoryPct separates advisory drift from a hard mismatch.
	AdvisoryPct float64

	// PrimaryColumn, when set, gates validation: sections whose TOTAL
	// value in this column is below MinPrimary are too small to validate
	// meaningfully and are skipped outright.
	PrimaryColumn string
	MinPrimary    int64

	// SkipZeroCalculated skips columns where no detail values were summed.
	// Sparse bottle-size columns are legitimately empty on many sections.
	SkipZeroCalculated bool
}

// Mismatch records one column where the summed detail rows disagree with the
// section's printed TOTAL. Mismatches are diagnostics: extraction output is
// kept either way, and the caller decides what drift is acceptable.
type Mismatch struct {
	Section    string
	Column     string
	Calculated decimal.Decimal
	Expected   decimal.Decimal
	DiffPct    decimal.Decimal

	// Advisory marks drift inside the advisory band; anything above it is
	// a hard mismatch pointing at a band miscalibration or merged rows.
	Advisory bool
}

// Validator compares per-section running sums against the printed TOTAL row.
type Validator struct {
	cfg ValidatorConfig
	log *slog.Logger
}

// NewValidator builds a Validator. The logger must not be nil.
func NewValidator(cfg ValidatorConfig, log *slog.Logger) *Validator {
	return &Validator{cfg: cfg, log: log}
}

// Check compares calculated sums against the expected TOTAL values for one
// section and returns the mismatching columns. Zero expected values are
// skipped: absent TOTAL cells parse as missing, not as zero.
func (v *Validator) Check(section string, calculated, expected map[string]decimal.Decimal) []Mismatch {
	if v.cfg.PrimaryColumn != "" {
		primary, ok := expected[v.cfg.PrimaryColumn]
		if !ok || primary.LessThan(decimal.NewFromInt(v.cfg.MinPrimary)) {
			return nil
		}
	}

	strict := decimal.NewFromFloat(v.cfg.StrictPct)
	advisory := decimal.NewFromFloat(v.cfg.AdvisoryPct)
	hundred := decimal.NewFromInt(100)

	var mismatches []Mismatch
	for _, col := range v.cfg.Columns {
		exp, ok := expected[col]
		if !ok || exp.IsZero() {
			continue
		}
		calc := calculated[col]
		if calc.IsZero() && v.cfg.SkipZeroCalculated {
			continue
		}

		diffPct := calc.Sub(exp).Abs().Div(exp.Abs()).Mul(hundred)
		if diffPct.LessThanOrEqual(strict) {
			continue
		}

		m := Mismatch{
			Section:    section,
			Column:     col,
			Calculated: calc,
			Expected:   exp,
			DiffPct:    diffPct,
			Advisory:   diffPct.LessThanOrEqual(advisory),
		}
		mismatches = append(mismatches, m)

		level := slog.LevelWarn
		if m.Advisory {
			level = slog.LevelInfo
		}
		v.log.Log(context.Background(), level, "subtotal mismatch",
			slog.String("section", section),
			slog.String("column", col),
			slog.String("calculated", calc.String()),
			slog.String("expected", exp.String()),
			slog.String("diff_pct", diffPct.StringFixed(2)),
		)
	}
	return mismatches
}
