package analysis

// Cardinality classification bands, ordered from few repeating values
// (enum-like columns) to near-unique (identifiers).
const (
	CardinalityLow      = "low"
	CardinalityMedium   = "medium"
	CardinalityHigh     = "high"
	CardinalityVeryHigh = "very high"
)

// CardinalityInfo describes how many distinct non-null values a column has
// and which band that count falls into relative to the total row count.
type CardinalityInfo struct {
	UniqueCount    int    `json:"uniqueCount"`
	Classification string `json:"classification"`
}

// Thresholds are the ratio cut points between cardinality bands. Each field
// is the exclusive upper bound of its band; everything at or above High is
// classified "very high". The values are a policy choice, not a structural
// invariant, so they live here as named configuration.
type Thresholds struct {
	Low    float64
	Medium float64
	High   float64
}

// DefaultThresholds classifies unique/total ratios as:
// low < 10%, medium < 50%, high < 90%, very high >= 90%.
var DefaultThresholds = Thresholds{
	Low:    0.10,
	Medium: 0.50,
	High:   0.90,
}

// Classify maps a unique count to its cardinality band. The classification
// is monotonic in uniqueCount for a fixed total. A non-positive total
// classifies as low.
func (t Thresholds) Classify(uniqueCount, totalRows int) string {
	if totalRows <= 0 {
		return CardinalityLow
	}

	ratio := float64(uniqueCount) / float64(totalRows)
	switch {
	case ratio < t.Low:
		return CardinalityLow
	case ratio < t.Medium:
		return CardinalityMedium
	case ratio < t.High:
		return CardinalityHigh
	default:
		return CardinalityVeryHigh
	}
}
