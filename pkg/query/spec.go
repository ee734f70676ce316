// Package query defines the query specification and result types exchanged
// with the Honeycomb query API. The analysis engine consumes these shapes
// without knowing anything about the wire protocol behind them.
package query

// ResultRow is one record returned by a query execution, mapping column
// names to scalar values decoded from JSON.
type ResultRow map[string]any

// Calculation is a single aggregate in a query specification.
// COUNT takes no column; every other op (AVG, P95, HEATMAP, ...) requires one.
type Calculation struct {
	Op     string `json:"op"`
	Column string `json:"column,omitempty"`
}

// Filter restricts which events a query examines.
type Filter struct {
	Column string `json:"column"`
	Op     string `json:"op"`
	Value  any    `json:"value,omitempty"`
}

// Order controls result ordering for grouped queries.
type Order struct {
	Column string `json:"column,omitempty"`
	Op     string `json:"op,omitempty"`
	Order  string `json:"order,omitempty"`
}

// Spec is a Honeycomb query specification.
type Spec struct {
	Calculations      []Calculation `json:"calculations,omitempty"`
	Breakdowns        []string      `json:"breakdowns,omitempty"`
	Filters           []Filter      `json:"filters,omitempty"`
	FilterCombination string        `json:"filter_combination,omitempty"`
	Orders            []Order       `json:"orders,omitempty"`
	TimeRange         int           `json:"time_range,omitempty"` // seconds back from now
	StartTime         int64         `json:"start_time,omitempty"` // unix seconds
	EndTime           int64         `json:"end_time,omitempty"`   // unix seconds
	Granularity       int           `json:"granularity,omitempty"`
	Limit             int           `json:"limit,omitempty"`
}

// NamesColumn reports whether the spec references column in its breakdowns
// or calculations. Column analysis requires the target column to appear in
// one of the two, otherwise the result rows carry nothing to analyze.
func (s *Spec) NamesColumn(column string) bool {
	if s == nil {
		return false
	}
	for _, b := range s.Breakdowns {
		if b == column {
			return true
		}
	}
	for _, c := range s.Calculations {
		if c.Column == column {
			return true
		}
	}
	return false
}

// CountColumn returns the result field that carries per-group event counts,
// or "" when the spec has no COUNT-style calculation.
func (s *Spec) CountColumn() string {
	if s == nil {
		return ""
	}
	for _, c := range s.Calculations {
		if c.Op == "COUNT" {
			return "COUNT"
		}
	}
	return ""
}

// Result is the outcome of one query execution: a finite list of rows plus
// the name of the event-count field when the query included a COUNT
// calculation.
type Result struct {
	Rows        []ResultRow
	CountColumn string
}
