package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchemaNullableEverywhere(t *testing.T) {
	cols := []ResolvedColumn{
		{Name: "id", Type: TypeInt64, Valid: []bool{true, true}},
		{Name: "score", Type: TypeFloat64, Valid: []bool{true, true}},
		{Name: "note", Type: TypeUtf8, Valid: []bool{true, false}},
	}

	schema := BuildSchema(cols)
	require.Len(t, schema.Fields, 3)
	for _, f := range schema.Fields {
		// Even the fully populated columns are nullable.
		assert.True(t, f.Nullable, "field %s", f.Name)
	}
}

func TestBuildSchemaPreservesOrderAndDuplicates(t *testing.T) {
	cols := []ResolvedColumn{
		{Name: "x", Type: TypeInt64},
		{Name: "x", Type: TypeUtf8},
		{Name: "y", Type: TypeBool},
	}

	schema := BuildSchema(cols)
	names := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"x", "x", "y"}, names)
	assert.Equal(t, TypeInt64, schema.Fields[0].Type)
	assert.Equal(t, TypeUtf8, schema.Fields[1].Type)
}

func TestResolveFullTable(t *testing.T) {
	raw := &RawTable{Columns: []RawColumn{
		{Name: "id", Cells: []Cell{NewNumberCell(1), NewNumberCell(2)}},
		{Name: "label", Cells: []Cell{NewTextCell("a"), NewTextCell("nan")}},
		{Name: "active", Cells: []Cell{NewBoolCell(true), NewBoolCell(false)}},
	}}

	schema, cols := Resolve(NormalizeTable(raw))
	require.Len(t, cols, 3)
	assert.Equal(t, TypeInt64, schema.Fields[0].Type)
	assert.Equal(t, TypeUtf8, schema.Fields[1].Type)
	assert.Equal(t, TypeBool, schema.Fields[2].Type)

	// The sentinel "nan" in the label column became a null string slot.
	assert.Equal(t, 1, cols[1].NullCount())
	for _, col := range cols {
		assert.Equal(t, raw.RowCount(), col.Len())
	}
}
