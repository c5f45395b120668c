// Package quality verifies generated event logs with SQL: aggregate
// statistics plus the labeling invariants the generator guarantees.
package quality

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	tferrors "github.com/traceforge/traceforge/pkg/errors"
)

// LogMetrics holds aggregate statistics for a generated log.
type LogMetrics struct {
	Path           string
	RowCount       int64
	CaseCount      int64
	ActivityCount  int64
	WorkflowCount  int64
	BottleneckPct  float64
	ErrorPct       float64
	MeanCaseLength float64
	Violations     []string
	ComputeTime    time.Duration
}

// Validator analyzes generated logs through an embedded DuckDB instance.
type Validator struct {
	db *sql.DB
}

// NewValidator opens an in-memory analysis database.
func NewValidator() (*Validator, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, tferrors.Wrap(err, tferrors.CodeInspectFailed, "open duckdb")
	}
	return &Validator{db: db}, nil
}

// Close releases resources.
func (v *Validator) Close() error {
	return v.db.Close()
}

// AnalyzeLog computes aggregate metrics and invariant violations for
// the CSV log at path.
func (v *Validator) AnalyzeLog(ctx context.Context, path string) (*LogMetrics, error) {
	start := time.Now()
	metrics := &LogMetrics{Path: path}
	src := fmt.Sprintf(`read_csv_auto('%s', header=true)`, escapePath(path))

	err := v.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(DISTINCT case_id),
			COUNT(DISTINCT activity),
			COUNT(DISTINCT workflow_type),
			100.0 * SUM(CASE WHEN is_bottleneck THEN 1 ELSE 0 END) / COUNT(*),
			100.0 * SUM(CASE WHEN result = 'ERROR' THEN 1 ELSE 0 END) / COUNT(*)
		FROM %s`, src)).Scan(
		&metrics.RowCount,
		&metrics.CaseCount,
		&metrics.ActivityCount,
		&metrics.WorkflowCount,
		&metrics.BottleneckPct,
		&metrics.ErrorPct,
	)
	if err != nil {
		return nil, tferrors.Wrap(err, tferrors.CodeInspectFailed, "aggregate query").
			WithContext("path", path)
	}
	if metrics.CaseCount > 0 {
		metrics.MeanCaseLength = float64(metrics.RowCount) / float64(metrics.CaseCount)
	}

	violations, err := v.checkInvariants(ctx, src)
	if err != nil {
		return nil, err
	}
	metrics.Violations = violations

	metrics.ComputeTime = time.Since(start)
	return metrics, nil
}

// invariantChecks are per-row conditions that must never hold in a
// well-formed log. Each query counts offending rows.
var invariantChecks = []struct {
	name string
	cond string
}{
	{"non-positive duration", `duration_ms <= 0`},
	{"bottleneck below regime floor", `is_bottleneck AND duration_ms < 100`},
	{"normal event above regime ceiling", `NOT is_bottleneck AND duration_ms > 1000`},
	{"anomaly score out of bounds", `anomaly_score < 0 OR anomaly_score > 1`},
	{"invalid result label", `result NOT IN ('SUCCESS', 'ERROR')`},
	{"bottleneck without pattern label", `is_bottleneck AND (bottleneck_type IS NULL OR bottleneck_type = '')`},
	{"case alias mismatch", `"case:concept:name" <> case_id`},
	{"activity alias mismatch", `"concept:name" <> activity`},
	{"timestamp alias mismatch", `"time:timestamp" <> timestamp`},
	{"resource alias mismatch", `"org:resource" <> resource`},
}

func (v *Validator) checkInvariants(ctx context.Context, src string) ([]string, error) {
	var violations []string
	for _, check := range invariantChecks {
		var count int64
		q := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, src, check.cond)
		if err := v.db.QueryRowContext(ctx, q).Scan(&count); err != nil {
			return nil, tferrors.Wrap(err, tferrors.CodeInspectFailed, "invariant query").
				WithContext("check", check.name)
		}
		if count > 0 {
			violations = append(violations, fmt.Sprintf("%s: %d rows", check.name, count))
		}
	}
	return violations, nil
}

func escapePath(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}
