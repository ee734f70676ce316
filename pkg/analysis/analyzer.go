package analysis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/apperrors"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/query"
)

// QueryRunner executes one query against the Honeycomb query API and
// returns its result rows. The analyzer delegates all timeout, retry, and
// cancellation behavior to the runner.
type QueryRunner interface {
	RunQuery(ctx context.Context, environment, dataset string, spec *query.Spec) (*query.Result, error)
}

// AnalyzeRequest carries the inputs for one column analysis.
type AnalyzeRequest struct {
	Environment   string
	Dataset       string
	Column        string
	Spec          *query.Spec
	TopValueLimit int
}

// ColumnAnalysis is the report emitted for one analyzed column. Optional
// sections absent from the analysis are omitted from the JSON rather than
// emitted as null.
type ColumnAnalysis struct {
	Column          string           `json:"column"`
	Count           int              `json:"count"`
	TotalEvents     int64            `json:"totalEvents"`
	TopValues       []TopValue       `json:"topValues,omitempty"`
	Stats           *NumericStats    `json:"stats,omitempty"`
	Cardinality     *CardinalityInfo `json:"cardinality,omitempty"`
	ProcessingError string           `json:"processingError,omitempty"`
}

// Analyzer orchestrates a query execution and reduces the returned rows to
// a ColumnAnalysis. Every invocation allocates its own row set and
// aggregates, so concurrent analyses need no coordination.
type Analyzer struct {
	runner     QueryRunner
	logger     *zap.Logger
	thresholds Thresholds
}

// NewAnalyzer creates an Analyzer with default cardinality thresholds.
// A nil logger disables logging.
func NewAnalyzer(runner QueryRunner, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		runner:     runner,
		logger:     logger,
		thresholds: DefaultThresholds,
	}
}

// AnalyzeColumn validates the request, runs exactly one query, and builds
// the column's statistical report. Input errors fail before the query is
// issued; upstream errors propagate wrapped; row-level failures degrade the
// report through its ProcessingError field instead of aborting it.
func (a *Analyzer) AnalyzeColumn(ctx context.Context, req AnalyzeRequest) (*ColumnAnalysis, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	result, err := a.runner.RunQuery(ctx, req.Environment, req.Dataset, req.Spec)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	report := &ColumnAnalysis{
		Column: req.Column,
		Count:  len(result.Rows),
	}

	var rowErrs []error

	report.TotalEvents, rowErrs = a.totalEvents(result)

	if report.Count == 0 {
		return report, nil
	}

	kind := a.classifyColumnType(result.Rows, req.Column)

	switch kind {
	case KindNumber:
		values, numErrs := a.collectNumericValues(result.Rows, req.Column)
		rowErrs = append(rowErrs, numErrs...)

		stats, err := NumericSummary(values)
		if err != nil {
			rowErrs = append(rowErrs, err)
		} else if stats != nil {
			stats.Interpretation = GenerateInterpretation(req.Column, stats)
			report.Stats = stats
		}
	case KindNull:
		// Column has no non-null values: neither histogram nor statistics.
	default:
		top, topErrs := TopValues(result.Rows, req.Column, req.TopValueLimit, report.Count)
		rowErrs = append(rowErrs, topErrs...)
		if len(top) > 0 {
			report.TopValues = top
		}
	}

	report.Cardinality = &CardinalityInfo{
		UniqueCount: uniqueCount(result.Rows, req.Column),
	}
	report.Cardinality.Classification = a.thresholds.Classify(report.Cardinality.UniqueCount, report.Count)

	if len(rowErrs) > 0 {
		report.ProcessingError = summarizeRowErrors(rowErrs)
		a.logger.Debug("column analysis degraded by row-level errors",
			zap.String("dataset", req.Dataset),
			zap.String("column", req.Column),
			zap.Int("error_count", len(rowErrs)))
	}

	return report, nil
}

// validateRequest checks required identifiers and the query specification
// before any external call is made.
func validateRequest(req AnalyzeRequest) error {
	if req.Environment == "" {
		return apperrors.NewValidationError("environment", "")
	}
	if req.Dataset == "" {
		return apperrors.NewValidationError("dataset", "")
	}
	if req.Column == "" {
		return apperrors.NewValidationError("column", "")
	}
	if req.Spec == nil {
		return apperrors.NewValidationError("query", "a query specification is required")
	}
	if !req.Spec.NamesColumn(req.Column) {
		return apperrors.NewValidationError("query",
			fmt.Sprintf("the query must include column %q in its breakdowns or calculations", req.Column))
	}
	return nil
}

// totalEvents sums the event-count field across rows when the query carried
// a COUNT calculation; otherwise the row count stands in for it.
func (a *Analyzer) totalEvents(result *query.Result) (int64, []error) {
	if result.CountColumn == "" {
		return int64(len(result.Rows)), nil
	}

	var total int64
	var rowErrs []error
	for _, row := range result.Rows {
		val, err := extractValue(row, result.CountColumn)
		if err != nil {
			rowErrs = append(rowErrs, err)
			continue
		}
		if val.Kind == KindNumber {
			total += int64(val.Num)
		}
	}
	return total, rowErrs
}

// classifyColumnType determines the column's value type from its first
// non-null occurrence. This heuristic is fragile for mixed-type columns but
// kept for compatibility; it is isolated here so the policy can change
// without touching the rest of the pipeline.
func (a *Analyzer) classifyColumnType(rows []query.ResultRow, column string) Kind {
	for _, row := range rows {
		val, err := extractValue(row, column)
		if err != nil {
			continue
		}
		if !val.IsNull() {
			return val.Kind
		}
	}
	return KindNull
}

// collectNumericValues extracts the column's numeric values, turning every
// null into a skip and every non-numeric or unconvertible value into a
// recorded row error. One bad row must never discard the valid ones.
func (a *Analyzer) collectNumericValues(rows []query.ResultRow, column string) ([]float64, []error) {
	values := make([]float64, 0, len(rows))
	var rowErrs []error

	for _, row := range rows {
		val, err := extractValue(row, column)
		if err != nil {
			rowErrs = append(rowErrs, err)
			continue
		}
		switch val.Kind {
		case KindNull:
			// Null values do not participate in numeric statistics.
		case KindNumber:
			values = append(values, val.Num)
		default:
			rowErrs = append(rowErrs, fmt.Errorf("column %q: value %v is not numeric", column, val.Raw()))
		}
	}
	return values, rowErrs
}

// summarizeRowErrors collapses row-level failures into the single
// processingError string carried on the report.
func summarizeRowErrors(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	return fmt.Sprintf("%d rows could not be processed; first error: %s", len(errs), errs[0].Error())
}
