// Package analysis implements the column analysis engine: it reduces the
// rows returned by one query execution to a statistical summary of a single
// column (cardinality, top-value histogram, numeric descriptive statistics,
// and a natural-language interpretation).
package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/query"
)

// Kind tags the closed set of scalar variants a column value can take.
// Upstream rows arrive as untyped JSON; re-expressing them through Value at
// the ingestion boundary forces every downstream computation to handle each
// variant explicitly.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a typed scalar extracted from a result row.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
}

// ValueFromAny converts a raw row value into a Value. The second return is
// false for values outside the scalar set (nested objects, arrays), which
// callers treat as a row-level processing failure rather than a fatal error.
func ValueFromAny(raw any) (Value, bool) {
	switch v := raw.(type) {
	case nil:
		return Value{Kind: KindNull}, true
	case string:
		return Value{Kind: KindString, Str: v}, true
	case bool:
		return Value{Kind: KindBool, Bool: v}, true
	case float64:
		return Value{Kind: KindNumber, Num: v}, true
	case float32:
		return Value{Kind: KindNumber, Num: float64(v)}, true
	case int:
		return Value{Kind: KindNumber, Num: float64(v)}, true
	case int32:
		return Value{Kind: KindNumber, Num: float64(v)}, true
	case int64:
		return Value{Kind: KindNumber, Num: float64(v)}, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Value{}, false
		}
		return Value{Kind: KindNumber, Num: f}, true
	default:
		return Value{}, false
	}
}

// IsNull reports whether the value is the null/absent variant.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Raw returns the native Go representation for JSON emission.
func (v Value) Raw() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	default:
		return nil
	}
}

// valueKey is the comparable frequency-table key: the type tag plus a
// canonical string rendering. Keying on the tag prevents cross-type
// coercion, so the number 1 and the string "1" count separately.
type valueKey struct {
	kind Kind
	repr string
}

func (v Value) key() valueKey {
	switch v.Kind {
	case KindString:
		return valueKey{kind: KindString, repr: v.Str}
	case KindNumber:
		return valueKey{kind: KindNumber, repr: strconv.FormatFloat(v.Num, 'g', -1, 64)}
	case KindBool:
		return valueKey{kind: KindBool, repr: strconv.FormatBool(v.Bool)}
	default:
		return valueKey{kind: KindNull}
	}
}

// extractValue pulls column's value out of a row. A missing key is the null
// variant; a non-scalar value is a conversion failure described by the
// returned error.
func extractValue(row query.ResultRow, column string) (Value, error) {
	raw, ok := row[column]
	if !ok {
		return Value{Kind: KindNull}, nil
	}
	val, ok := ValueFromAny(raw)
	if !ok {
		return Value{}, fmt.Errorf("column %q: value of type %T is not a scalar", column, raw)
	}
	return val, nil
}
