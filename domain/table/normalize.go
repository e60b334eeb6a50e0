package table

import (
	"math"
	"strings"
)

// Sentinel tokens that mean "no data" despite arriving as text. Matched
// case-insensitively after trimming surrounding whitespace.
var sentinelTokens = map[string]bool{
	"":     true,
	"nan":  true,
	"none": true,
	"nat":  true,
	"null": true,
}

// NormalizeCell canonicalizes one raw cell: IEEE infinities, NaN, and sentinel
// text all collapse to Absent. Every other cell passes through unchanged; text
// keeps its whitespace here, because trimming is a string-coercion concern and
// the column's type is not known yet. Pure and idempotent.
func NormalizeCell(c Cell) Cell {
	switch c.Kind {
	case KindNumber:
		if math.IsInf(c.NumberVal, 0) || math.IsNaN(c.NumberVal) {
			return NewAbsentCell()
		}
	case KindText:
		if IsSentinel(c.TextVal) {
			return NewAbsentCell()
		}
	}
	return c
}

// IsSentinel reports whether a text value is one of the no-data tokens
func IsSentinel(s string) bool {
	return sentinelTokens[strings.ToLower(strings.TrimSpace(s))]
}

// NormalizeColumn returns a copy of the column with every cell normalized
func NormalizeColumn(col RawColumn) RawColumn {
	out := RawColumn{
		Name:              col.Name,
		DeclaredTimestamp: col.DeclaredTimestamp,
		Cells:             make([]Cell, len(col.Cells)),
	}
	for i, c := range col.Cells {
		out.Cells[i] = NormalizeCell(c)
	}
	return out
}

// NormalizeTable normalizes every column of a raw table
func NormalizeTable(t *RawTable) *RawTable {
	out := &RawTable{Columns: make([]RawColumn, len(t.Columns))}
	for i, col := range t.Columns {
		out.Columns[i] = NormalizeColumn(col)
	}
	return out
}
