package ports

import (
	"parquetry/domain/table"
)

// Reader loads one spreadsheet file into a fully materialized raw table.
// Implementations fail with errors.CodeSourceRead on missing, corrupt, or
// unsupported input.
type Reader interface {
	Read(path string) (*table.RawTable, error)
}

// Writer persists a resolved schema and its coerced column buffers as one
// output artifact. Implementations fail with errors.CodeSinkWrite on an
// unwritable target or a schema type they cannot represent.
type Writer interface {
	Write(schema table.Schema, cols []table.ResolvedColumn, path string) error
}

// ProgressFunc receives percentage checkpoints (0-100) for one conversion.
// Best-effort: a nil sink changes no behavior, and sinks must not block.
type ProgressFunc func(percent int)

// BatchProgressFunc receives per-file checkpoints during a batch run
type BatchProgressFunc func(inputPath string, percent int)
