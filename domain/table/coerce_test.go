package table

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceMixedColumnToString(t *testing.T) {
	// [1, 2, "N/A", 4]: the single text value demotes the numeric column.
	col := NormalizeColumn(RawColumn{
		Name:  "v",
		Cells: []Cell{NewNumberCell(1), NewNumberCell(2), NewTextCell("N/A"), NewNumberCell(4)},
	})

	typ := ResolveColumnType(col)
	require.Equal(t, TypeUtf8, typ)

	resolved := CoerceColumn(col, typ)
	assert.Equal(t, []string{"1", "2", "N/A", "4"}, resolved.Strings)
	assert.Equal(t, []bool{true, true, true, true}, resolved.Valid)
	assert.Zero(t, resolved.NullCount())
}

func TestCoerceIntColumnWithInfinity(t *testing.T) {
	// [1.0, 2.0, inf, 4.0]: infinity normalizes to null, column stays Int64.
	col := NormalizeColumn(RawColumn{
		Name:  "v",
		Cells: []Cell{NewNumberCell(1.0), NewNumberCell(2.0), NewNumberCell(math.Inf(1)), NewNumberCell(4.0)},
	})

	resolved := CoerceColumn(col, ResolveColumnType(col))
	require.Equal(t, TypeInt64, resolved.Type)
	assert.Equal(t, []int64{1, 2, 0, 4}, resolved.Ints)
	assert.Equal(t, []bool{true, true, false, true}, resolved.Valid)
}

func TestCoerceAllAbsentColumn(t *testing.T) {
	col := NormalizeColumn(RawColumn{
		Name:  "v",
		Cells: []Cell{NewTextCell("None"), NewTextCell("None"), NewTextCell("None")},
	})

	resolved := CoerceColumn(col, ResolveColumnType(col))
	require.Equal(t, TypeUtf8, resolved.Type)
	assert.Equal(t, 3, resolved.Len())
	assert.Equal(t, 3, resolved.NullCount())
	// Null never becomes empty string inside the engine.
	for i := range resolved.Valid {
		assert.Nil(t, resolved.Value(i))
	}
}

func TestCoerceBoolColumn(t *testing.T) {
	col := RawColumn{Name: "flag", Cells: []Cell{NewBoolCell(true), NewBoolCell(false), NewBoolCell(true)}}

	resolved := CoerceColumn(col, ResolveColumnType(col))
	require.Equal(t, TypeBool, resolved.Type)
	assert.Equal(t, []bool{true, false, true}, resolved.Bools)
	assert.Zero(t, resolved.NullCount())
}

func TestCoerceTimestampColumn(t *testing.T) {
	jan := mustTime("2021-01-01")
	jun := mustTime("2021-06-15")
	col := RawColumn{
		Name:              "when",
		DeclaredTimestamp: true,
		Cells:             []Cell{NewTimestampCell(jan), NewAbsentCell(), NewTimestampCell(jun)},
	}

	resolved := CoerceColumn(col, ResolveColumnType(col))
	require.Equal(t, TypeTimestamp, resolved.Type)
	assert.True(t, resolved.Timestamps[0].Equal(jan))
	assert.False(t, resolved.Valid[1])
	assert.True(t, resolved.Timestamps[2].Equal(jun))
}

// A strict conversion failure anywhere in the column must re-coerce the whole
// column as strings: no resolved column ever mixes native and string values.
func TestCoerceStrictFailureFallsBackToWholeColumnString(t *testing.T) {
	col := RawColumn{
		Name:  "v",
		Cells: []Cell{NewNumberCell(1), NewTextCell("oops"), NewNumberCell(3)},
	}

	// Force a type the column cannot satisfy.
	resolved := CoerceColumn(col, TypeInt64)
	require.Equal(t, TypeUtf8, resolved.Type)
	assert.Equal(t, []string{"1", "oops", "3"}, resolved.Strings)
	assert.Nil(t, resolved.Ints)
}

func TestCoerceNeverDropsRows(t *testing.T) {
	columns := []RawColumn{
		{Name: "a", Cells: []Cell{NewNumberCell(1), NewAbsentCell(), NewNumberCell(3)}},
		{Name: "b", Cells: []Cell{NewTextCell("x"), NewTextCell("none"), NewBoolCell(true)}},
		{Name: "c", Cells: []Cell{NewAbsentCell()}},
		{Name: "d", Cells: nil},
	}

	for _, raw := range columns {
		col := NormalizeColumn(raw)
		resolved := CoerceColumn(col, ResolveColumnType(col))
		assert.Equal(t, len(raw.Cells), resolved.Len(), "column %s", raw.Name)
	}
}

func TestRenderCellText(t *testing.T) {
	noon := time.Date(2021, 3, 4, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"text trimmed in string column", NewTextCell("  padded  "), "padded"},
		{"integral float", NewNumberCell(4), "4"},
		{"fractional float", NewNumberCell(2.5), "2.5"},
		{"large number stays decimal", NewNumberCell(1000000), "1000000"},
		{"tiny number uses exponent", NewNumberCell(0.0000001), "1e-07"},
		{"bool true", NewBoolCell(true), "True"},
		{"bool false", NewBoolCell(false), "False"},
		{"midnight timestamp as date", NewTimestampCell(mustTime("2021-01-01")), "2021-01-01"},
		{"timestamp with clock", NewTimestampCell(noon), "2021-03-04 12:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderCellText(tt.cell))
		})
	}
}
