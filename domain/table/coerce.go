package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CoerceColumn converts a normalized column into typed buffers for the given
// resolved type. The function is total: if any single value fails strict
// conversion, the whole column is re-coerced as Utf8. A value-level failure
// forces a column-level fallback, never a mixed-type column.
func CoerceColumn(col RawColumn, typ ColumnType) ResolvedColumn {
	if typ != TypeUtf8 {
		resolved, err := coerceStrict(col, typ)
		if err == nil {
			return resolved
		}
	}
	return coerceString(col)
}

// coerceStrict attempts the canonical conversion for a non-string type.
// Absent cells map to null slots; any cell that does not convert cleanly
// fails the whole column.
func coerceStrict(col RawColumn, typ ColumnType) (ResolvedColumn, error) {
	n := len(col.Cells)
	out := ResolvedColumn{Name: col.Name, Type: typ, Valid: make([]bool, n)}

	switch typ {
	case TypeInt64:
		out.Ints = make([]int64, n)
	case TypeFloat64:
		out.Floats = make([]float64, n)
	case TypeBool:
		out.Bools = make([]bool, n)
	case TypeTimestamp:
		out.Timestamps = make([]time.Time, n)
	default:
		return ResolvedColumn{}, fmt.Errorf("coerceStrict called with type %q", typ)
	}

	for i, c := range col.Cells {
		if c.IsAbsent() {
			continue
		}
		switch typ {
		case TypeInt64:
			if c.Kind != KindNumber || !isIntegral(c.NumberVal) {
				return ResolvedColumn{}, fmt.Errorf("cell %d: %s is not an int64", i, c)
			}
			out.Ints[i] = int64(c.NumberVal)
		case TypeFloat64:
			if c.Kind != KindNumber {
				return ResolvedColumn{}, fmt.Errorf("cell %d: %s is not numeric", i, c)
			}
			out.Floats[i] = c.NumberVal
		case TypeBool:
			if c.Kind != KindBool {
				return ResolvedColumn{}, fmt.Errorf("cell %d: %s is not boolean", i, c)
			}
			out.Bools[i] = c.BoolVal
		case TypeTimestamp:
			if c.Kind != KindTimestamp || c.TimestampVal == nil {
				return ResolvedColumn{}, fmt.Errorf("cell %d: %s is not a timestamp", i, c)
			}
			out.Timestamps[i] = c.TimestampVal.Truncate(TimestampUnit)
		}
		out.Valid[i] = true
	}

	return out, nil
}

// coerceString renders every present cell as text. Absent stays null; the
// fallback does not invent empty strings; that policy belongs to callers.
func coerceString(col RawColumn) ResolvedColumn {
	n := len(col.Cells)
	out := ResolvedColumn{
		Name:    col.Name,
		Type:    TypeUtf8,
		Valid:   make([]bool, n),
		Strings: make([]string, n),
	}

	for i, c := range col.Cells {
		if c.IsAbsent() {
			continue
		}
		out.Strings[i] = renderCellText(c)
		out.Valid[i] = true
	}

	return out
}

// renderCellText produces the canonical textual form of a present cell
func renderCellText(c Cell) string {
	switch c.Kind {
	case KindText:
		return strings.TrimSpace(c.TextVal)
	case KindNumber:
		return FormatNumber(c.NumberVal)
	case KindBool:
		if c.BoolVal {
			return "True"
		}
		return "False"
	case KindTimestamp:
		return FormatTimestamp(*c.TimestampVal)
	}
	return ""
}

// FormatNumber renders a float the way a spreadsheet user wrote it: integral
// values without a decimal point, exponent form only when the magnitude
// requires one.
func FormatNumber(f float64) string {
	abs := f
	if abs < 0 {
		abs = -abs
	}
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatTimestamp renders a timestamp as a date when it has no clock
// component, otherwise as a full date-time.
func FormatTimestamp(t time.Time) string {
	t = t.Truncate(TimestampUnit)
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
