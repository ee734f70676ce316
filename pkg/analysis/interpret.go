package analysis

import (
	"fmt"
	"strings"
)

// Interpretation thresholds: a 95th percentile beyond outlierFactor times
// the average flags an outlier-heavy distribution; a min-max range beyond
// rangeFactor times the average flags high variability.
const (
	outlierFactor = 3.0
	rangeFactor   = 10.0
)

// GenerateInterpretation produces a short natural-language summary of a
// numeric column's statistics. Each check only runs when its inputs are
// present; with neither condition triggered the summary states a standard
// distribution. The output is deterministic for the same inputs.
func GenerateInterpretation(column string, s *NumericStats) string {
	if s == nil {
		return ""
	}

	var sentences []string

	if s.P95 != nil && s.Avg != nil && *s.P95 > outlierFactor**s.Avg {
		sentences = append(sentences, fmt.Sprintf(
			"Column %q has significant outliers: the 95th percentile (%.2f) is more than %dx the average (%.2f).",
			column, *s.P95, int(outlierFactor), *s.Avg))
	}

	if s.Min != nil && s.Max != nil && s.Avg != nil && (*s.Max-*s.Min) > rangeFactor**s.Avg {
		sentences = append(sentences, fmt.Sprintf(
			"Column %q shows high variability: the min-max range (%.2f) is more than %dx the average (%.2f).",
			column, *s.Max-*s.Min, int(rangeFactor), *s.Avg))
	}

	if len(sentences) == 0 {
		return fmt.Sprintf("Column %q has a standard distribution with no notable outliers or variability.", column)
	}
	return strings.Join(sentences, " ")
}
