package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/query"
)

func TestStdDev_PopulationFormula(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean := 5.0

	// Known population standard deviation of this classic sequence is 2.
	assert.InDelta(t, 2.0, StdDev(values, mean), 1e-9)
}

func TestStdDev_ShortSequencesReturnZero(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil, 0))
	assert.Equal(t, 0.0, StdDev([]float64{}, 0))
	assert.Equal(t, 0.0, StdDev([]float64{42}, 42))
}

func TestStdDev_UsesSuppliedMean(t *testing.T) {
	values := []float64{1, 2, 3}

	withTrueMean := StdDev(values, 2)
	withWrongMean := StdDev(values, 10)

	// The mean is not recomputed internally, so a different supplied mean
	// must produce a different result.
	assert.NotEqual(t, withTrueMean, withWrongMean)
	assert.InDelta(t, math.Sqrt(2.0/3.0), withTrueMean, 1e-9)
}

func TestNumericSummary_Scenario(t *testing.T) {
	// Values from the high-variability threshold example: avg=28, range=90.
	summary, err := NumericSummary([]float64{10, 10, 10, 10, 100})
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, 28.0, *summary.Avg)
	assert.Equal(t, 10.0, *summary.Min)
	assert.Equal(t, 100.0, *summary.Max)
	assert.Equal(t, 90.0, *summary.Range)
	assert.Equal(t, 140.0, *summary.Sum)
	assert.Equal(t, 10.0, *summary.Median)
}

func TestNumericSummary_RangeInvariant(t *testing.T) {
	summary, err := NumericSummary([]float64{3.5, 7.25, -2, 100, 42})
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.InDelta(t, *summary.Max-*summary.Min, *summary.Range, 1e-9)
	assert.GreaterOrEqual(t, *summary.StdDev, 0.0)
}

func TestNumericSummary_Empty(t *testing.T) {
	summary, err := NumericSummary(nil)
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestNumericSummary_SingleValue(t *testing.T) {
	summary, err := NumericSummary([]float64{12})
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, 12.0, *summary.Min)
	assert.Equal(t, 12.0, *summary.Max)
	assert.Equal(t, 12.0, *summary.P95)
	assert.Equal(t, 0.0, *summary.StdDev)
}

func TestTopValues_ScenarioA(t *testing.T) {
	rows := []query.ResultRow{
		{"c": float64(1)},
		{"c": float64(1)},
		{"c": float64(2)},
	}

	top, errs := TopValues(rows, "c", 5, len(rows))
	require.Empty(t, errs)
	require.Len(t, top, 2)

	assert.Equal(t, float64(1), top[0].Value)
	assert.Equal(t, 2, top[0].Count)
	assert.Equal(t, float64(2), top[1].Value)
	assert.Equal(t, 1, top[1].Count)
}

func TestTopValues_RespectsLimitAndOrdering(t *testing.T) {
	rows := []query.ResultRow{
		{"c": "a"}, {"c": "a"}, {"c": "a"},
		{"c": "b"}, {"c": "b"},
		{"c": "c"}, {"c": "c"},
		{"c": "d"},
	}

	top, errs := TopValues(rows, "c", 2, len(rows))
	require.Empty(t, errs)
	require.Len(t, top, 2)

	assert.Equal(t, "a", top[0].Value)
	// "b" and "c" tie at 2; first-seen order wins.
	assert.Equal(t, "b", top[1].Value)

	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Count, top[i].Count)
	}
}

func TestTopValues_SkipsNullsButCountsThemInPercentages(t *testing.T) {
	rows := []query.ResultRow{
		{"c": "x"},
		{"c": "x"},
		{"c": nil},
		{},
		{"c": "y"},
	}

	top, errs := TopValues(rows, "c", 5, len(rows))
	require.Empty(t, errs)
	require.Len(t, top, 2)

	// Percentage denominator is all 5 examined rows, not the 3 non-null ones.
	assert.Equal(t, "40.0%", top[0].Percentage)
	assert.Equal(t, "20.0%", top[1].Percentage)
}

func TestTopValues_HeterogeneousTypesStayDistinct(t *testing.T) {
	rows := []query.ResultRow{
		{"c": float64(1)},
		{"c": "1"},
		{"c": true},
		{"c": float64(1)},
	}

	top, errs := TopValues(rows, "c", 5, len(rows))
	require.Empty(t, errs)
	require.Len(t, top, 3)

	assert.Equal(t, float64(1), top[0].Value)
	assert.Equal(t, 2, top[0].Count)
}

func TestFrequencyTable_CountSumEqualsNonNullRows(t *testing.T) {
	rows := []query.ResultRow{
		{"c": "a"}, {"c": "b"}, {"c": "a"}, {"c": nil}, {}, {"c": "c"},
	}

	entries, errs := frequencyTable(rows, "c")
	require.Empty(t, errs)

	total := 0
	for _, e := range entries {
		total += e.count
	}
	assert.Equal(t, 4, total) // 6 rows, 2 null/absent
}

func TestFrequencyTable_IsolatesBadRows(t *testing.T) {
	rows := []query.ResultRow{
		{"c": "a"},
		{"c": map[string]any{"nested": true}},
		{"c": "a"},
	}

	entries, errs := frequencyTable(rows, "c")
	require.Len(t, errs, 1)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].count)
}

func TestUniqueCount(t *testing.T) {
	rows := []query.ResultRow{
		{"c": "a"}, {"c": "b"}, {"c": "a"}, {"c": nil},
	}
	assert.Equal(t, 2, uniqueCount(rows, "c"))
	assert.Equal(t, 0, uniqueCount(nil, "c"))
}
