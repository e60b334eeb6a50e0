package table

import "math"

// int64-representable float64 bounds. 2^63-1 is not exactly representable as a
// float64, so the usable upper bound is the next value down.
const (
	maxIntegralFloat = float64(math.MaxInt64)
	minIntegralFloat = float64(math.MinInt64)
)

// ResolveColumnType decides a single storage type for a whole (already
// normalized) column. The scan is a pure aggregation over present cells, so the
// result is independent of row order: one incompatible cell anywhere demotes
// the column the same way regardless of where it sits.
//
// Resolution order, most to least restrictive:
//  1. declared-timestamp column whose present cells are all timestamps → Timestamp
//  2. all present cells boolean → Bool
//  3. all present cells numeric and integral within int64 range → Int64
//  4. all present cells numeric → Float64
//  5. anything else → Utf8 (universal fallback, never an error)
//
// A column with zero present cells carries no type evidence and resolves to
// Utf8: downstream treats it as a blank string column rather than inventing a
// numeric or temporal type.
func ResolveColumnType(col RawColumn) ColumnType {
	var (
		present      int
		allTimestamp = true
		allBool      = true
		allNumeric   = true
		allIntegral  = true
	)

	for _, c := range col.Cells {
		if c.IsAbsent() {
			continue
		}
		present++

		if c.Kind != KindTimestamp {
			allTimestamp = false
		}
		if c.Kind != KindBool {
			allBool = false
		}
		if c.Kind != KindNumber {
			allNumeric = false
			allIntegral = false
			continue
		}
		if !isIntegral(c.NumberVal) {
			allIntegral = false
		}
	}

	if present == 0 {
		return TypeUtf8
	}

	switch {
	case col.DeclaredTimestamp && allTimestamp:
		return TypeTimestamp
	case allBool:
		return TypeBool
	case allNumeric && allIntegral:
		return TypeInt64
	case allNumeric:
		return TypeFloat64
	default:
		return TypeUtf8
	}
}

// isIntegral reports whether f has no fractional part and fits in int64.
// Infinities and NaN never reach here: normalization already absorbed them.
func isIntegral(f float64) bool {
	if f != math.Trunc(f) {
		return false
	}
	return f >= minIntegralFloat && f < maxIntegralFloat
}
