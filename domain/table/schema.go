package table

// BuildSchema assembles the table-wide schema from resolved columns, in
// original column order. Every field is forced nullable, including columns
// that held no nulls: the downstream consumer rejects non-nullable fields
// that may receive nulls on future appends. Duplicate column names pass
// through as given.
func BuildSchema(cols []ResolvedColumn) Schema {
	fields := make([]Field, len(cols))
	for i, col := range cols {
		fields[i] = Field{
			Name:     col.Name,
			Type:     col.Type,
			Nullable: true,
		}
	}
	return Schema{Fields: fields}
}

// Resolve runs the full per-column pipeline over a normalized table:
// type resolution, coercion, and schema assembly.
func Resolve(t *RawTable) (Schema, []ResolvedColumn) {
	cols := make([]ResolvedColumn, len(t.Columns))
	for i, raw := range t.Columns {
		typ := ResolveColumnType(raw)
		cols[i] = CoerceColumn(raw, typ)
	}
	return BuildSchema(cols), cols
}
