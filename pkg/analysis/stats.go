package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/query"
)

// DefaultTopValueLimit is how many distinct values a top-values histogram
// carries when the caller does not ask for a specific limit.
const DefaultTopValueLimit = 5

// TopValue is one entry of a top-values histogram. Count is the number of
// analyzed rows whose column value equals Value under strict (type-tagged)
// equality; Percentage is Count over all examined rows, null rows included
// in the denominator.
type TopValue struct {
	Value      any    `json:"value"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage,omitempty"`
}

// NumericStats holds descriptive statistics for a numeric column. Fields
// are pointers so a statistic that could not be computed is omitted from
// the emitted JSON instead of showing up as a misleading zero.
type NumericStats struct {
	Min            *float64 `json:"min,omitempty"`
	Max            *float64 `json:"max,omitempty"`
	Avg            *float64 `json:"avg,omitempty"`
	P95            *float64 `json:"p95,omitempty"`
	Median         *float64 `json:"median,omitempty"`
	Sum            *float64 `json:"sum,omitempty"`
	Range          *float64 `json:"range,omitempty"`
	StdDev         *float64 `json:"stdDev,omitempty"`
	Interpretation string   `json:"interpretation,omitempty"`
}

// StdDev returns the population standard deviation of values around the
// supplied mean: sqrt(mean of squared deviations). The mean is deliberately
// not recomputed so callers can compute it once and reuse it across derived
// statistics; callers must supply a mean consistent with values.
// Sequences of length <= 1 return 0.
func StdDev(values []float64, mean float64) float64 {
	if len(values) <= 1 {
		return 0
	}

	sumSquares := 0.0
	for _, v := range values {
		d := v - mean
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

// NumericSummary reduces a sequence of numeric values to descriptive
// statistics. Returns nil for an empty sequence.
func NumericSummary(values []float64) (*NumericStats, error) {
	if len(values) == 0 {
		return nil, nil
	}

	min, err := stats.Min(values)
	if err != nil {
		return nil, fmt.Errorf("failed to compute min: %w", err)
	}
	max, err := stats.Max(values)
	if err != nil {
		return nil, fmt.Errorf("failed to compute max: %w", err)
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return nil, fmt.Errorf("failed to compute mean: %w", err)
	}
	median, err := stats.Median(values)
	if err != nil {
		return nil, fmt.Errorf("failed to compute median: %w", err)
	}
	p95, err := stats.Percentile(values, 95)
	if err != nil {
		// Percentile needs more than one sample; fall back to the max so
		// single-value columns still report a consistent distribution.
		p95 = max
	}
	sum, err := stats.Sum(values)
	if err != nil {
		return nil, fmt.Errorf("failed to compute sum: %w", err)
	}

	stdDev := StdDev(values, mean)
	rng := max - min

	return &NumericStats{
		Min:    round2(min),
		Max:    round2(max),
		Avg:    round2(mean),
		P95:    round2(p95),
		Median: round2(median),
		Sum:    round2(sum),
		Range:  round2(rng),
		StdDev: round2(stdDev),
	}, nil
}

// frequencyEntry is one distinct value with its occurrence count,
// positioned by first appearance in the row set.
type frequencyEntry struct {
	value Value
	count int
}

// frequencyTable counts occurrences of each distinct non-null value of
// column across rows, in first-seen order. Rows whose value cannot be
// converted are skipped and reported through the returned error slice so
// one malformed row never discards the rest of the table.
func frequencyTable(rows []query.ResultRow, column string) ([]frequencyEntry, []error) {
	index := make(map[valueKey]int)
	entries := make([]frequencyEntry, 0)
	var rowErrs []error

	for _, row := range rows {
		val, err := extractValue(row, column)
		if err != nil {
			rowErrs = append(rowErrs, err)
			continue
		}
		if val.IsNull() {
			continue
		}

		k := val.key()
		if i, seen := index[k]; seen {
			entries[i].count++
		} else {
			index[k] = len(entries)
			entries = append(entries, frequencyEntry{value: val, count: 1})
		}
	}

	return entries, rowErrs
}

// TopValues returns the limit most frequent distinct non-null values of
// column across rows, sorted by descending count with first-seen order
// breaking ties. A limit <= 0 falls back to DefaultTopValueLimit.
// totalRows is the percentage denominator: the number of rows examined,
// including those skipped for null values.
func TopValues(rows []query.ResultRow, column string, limit, totalRows int) ([]TopValue, []error) {
	if limit <= 0 {
		limit = DefaultTopValueLimit
	}

	entries, rowErrs := frequencyTable(rows, column)

	// Stable sort preserves insertion order among equal counts.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	top := make([]TopValue, 0, len(entries))
	for _, e := range entries {
		tv := TopValue{
			Value: e.value.Raw(),
			Count: e.count,
		}
		if totalRows > 0 {
			tv.Percentage = fmt.Sprintf("%.1f%%", float64(e.count)/float64(totalRows)*100)
		}
		top = append(top, tv)
	}
	return top, rowErrs
}

// uniqueCount returns the number of distinct non-null values of column
// across rows. Unconvertible rows are excluded, matching frequencyTable.
func uniqueCount(rows []query.ResultRow, column string) int {
	entries, _ := frequencyTable(rows, column)
	return len(entries)
}

// round2 rounds to two decimal places, keeping emitted statistics compact.
func round2(v float64) *float64 {
	r := math.Round(v*100) / 100
	return &r
}
