package table

import (
	"fmt"
	"strconv"
	"time"
)

// CellKind tags the storage type of a raw spreadsheet cell
type CellKind string

const (
	KindNumber    CellKind = "number"
	KindBool      CellKind = "bool"
	KindText      CellKind = "text"
	KindTimestamp CellKind = "timestamp"
	KindAbsent    CellKind = "absent"
)

// Cell is the tagged value a reader produces for one spreadsheet cell.
// Exactly one payload field is meaningful, selected by Kind; Absent carries none.
type Cell struct {
	Kind         CellKind   `json:"kind"`
	NumberVal    float64    `json:"number_val,omitempty"`
	BoolVal      bool       `json:"bool_val,omitempty"`
	TextVal      string     `json:"text_val,omitempty"`
	TimestampVal *time.Time `json:"timestamp_val,omitempty"`
}

// NewNumberCell creates a numeric cell
func NewNumberCell(n float64) Cell {
	return Cell{Kind: KindNumber, NumberVal: n}
}

// NewBoolCell creates a boolean cell
func NewBoolCell(b bool) Cell {
	return Cell{Kind: KindBool, BoolVal: b}
}

// NewTextCell creates a text cell
func NewTextCell(s string) Cell {
	return Cell{Kind: KindText, TextVal: s}
}

// NewTimestampCell creates a timestamp cell
func NewTimestampCell(t time.Time) Cell {
	return Cell{Kind: KindTimestamp, TimestampVal: &t}
}

// NewAbsentCell creates an absent (null) cell
func NewAbsentCell() Cell {
	return Cell{Kind: KindAbsent}
}

// IsAbsent returns true if the cell carries no data
func (c Cell) IsAbsent() bool {
	return c.Kind == KindAbsent
}

// String returns a diagnostic representation of the cell
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.NumberVal, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(c.BoolVal)
	case KindText:
		return c.TextVal
	case KindTimestamp:
		if c.TimestampVal != nil {
			return c.TimestampVal.Format(time.RFC3339)
		}
	case KindAbsent:
		return "<absent>"
	}
	return "<invalid>"
}

// RawColumn is one named column of raw cells, in row order.
// DeclaredTimestamp is the reader's type tag: true when the source marked the
// whole column as date/time valued.
type RawColumn struct {
	Name              string `json:"name"`
	DeclaredTimestamp bool   `json:"declared_timestamp"`
	Cells             []Cell `json:"cells"`
}

// RawTable is the fully materialized output of a reader: ordered named columns,
// every column the same length. Immutable once loaded.
type RawTable struct {
	Columns []RawColumn `json:"columns"`
}

// RowCount returns the number of data rows in the table
func (t *RawTable) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// ColumnType is the resolved storage type for a whole column
type ColumnType string

const (
	TypeInt64     ColumnType = "int64"
	TypeFloat64   ColumnType = "float64"
	TypeBool      ColumnType = "bool"
	TypeTimestamp ColumnType = "timestamp"
	TypeUtf8      ColumnType = "utf8"
)

// TimestampUnit is the precision timestamps are stored at. Milliseconds is the
// only unit the engine emits.
const TimestampUnit = time.Millisecond

// Field is one schema entry. Nullable is always true: the downstream consumer
// rejects fields that claim non-nullability but receive nulls on later appends.
type Field struct {
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Nullable bool       `json:"nullable"`
}

// Schema is the ordered field list for one converted table
type Schema struct {
	Fields []Field `json:"fields"`
}

// ResolvedColumn holds one column after type resolution and coercion.
// Exactly one of the typed slices is populated, matching Type; Valid marks the
// non-null slots. All slices have the same length as the source column.
type ResolvedColumn struct {
	Name  string     `json:"name"`
	Type  ColumnType `json:"type"`
	Valid []bool     `json:"valid"`

	Ints       []int64     `json:"ints,omitempty"`
	Floats     []float64   `json:"floats,omitempty"`
	Bools      []bool      `json:"bools,omitempty"`
	Timestamps []time.Time `json:"timestamps,omitempty"`
	Strings    []string    `json:"strings,omitempty"`
}

// Len returns the number of rows in the column
func (c *ResolvedColumn) Len() int {
	return len(c.Valid)
}

// NullCount returns the number of null slots in the column
func (c *ResolvedColumn) NullCount() int {
	nulls := 0
	for _, v := range c.Valid {
		if !v {
			nulls++
		}
	}
	return nulls
}

// Value returns the row's value as an interface, or nil for a null slot.
// Diagnostic helper for previews and tests.
func (c *ResolvedColumn) Value(row int) interface{} {
	if !c.Valid[row] {
		return nil
	}
	switch c.Type {
	case TypeInt64:
		return c.Ints[row]
	case TypeFloat64:
		return c.Floats[row]
	case TypeBool:
		return c.Bools[row]
	case TypeTimestamp:
		return c.Timestamps[row]
	case TypeUtf8:
		return c.Strings[row]
	}
	panic(fmt.Sprintf("unknown column type %q", c.Type))
}
