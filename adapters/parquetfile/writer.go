package parquetfile

import (
	"fmt"
	"log"
	"os"

	"parquetry/domain/table"
	"parquetry/internal/errors"

	"github.com/apache/arrow/go/v11/parquet"
	"github.com/apache/arrow/go/v11/parquet/compress"
	"github.com/apache/arrow/go/v11/parquet/file"
	"github.com/apache/arrow/go/v11/parquet/schema"
)

// Writer persists resolved tables as snappy-compressed parquet files. Every
// column is written as an optional field: the schema is nullable everywhere.
type Writer struct{}

// NewWriter creates a parquet writer
func NewWriter() *Writer {
	return &Writer{}
}

// Write encodes the schema and column buffers into a parquet file at path.
// The file is assembled under a temporary name and renamed into place, so a
// mid-write failure leaves no partial artifact behind.
func (w *Writer) Write(sch table.Schema, cols []table.ResolvedColumn, path string) error {
	if len(cols) != len(sch.Fields) {
		return errors.New(errors.CodeSinkWrite,
			fmt.Sprintf("schema has %d fields but %d columns were given", len(sch.Fields), len(cols)))
	}

	root, err := buildGroupNode(sch)
	if err != nil {
		return errors.SinkWrite(path, err)
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return errors.SinkWrite(path, err)
	}

	// The parquet writer owns the sink: its Close closes f, so no separate
	// f.Close() may follow a successful writeColumns.
	if err := writeColumns(f, root, cols); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return errors.SinkWrite(path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.SinkWrite(path, err)
	}

	log.Printf("[Writer] %s written (%d columns)", path, len(cols))
	return nil
}

// buildGroupNode maps the resolved schema onto parquet schema nodes, all with
// optional repetition.
func buildGroupNode(sch table.Schema) (*schema.GroupNode, error) {
	fields := make(schema.FieldList, len(sch.Fields))
	for i, fld := range sch.Fields {
		node, err := fieldNode(fld, int32(i))
		if err != nil {
			return nil, err
		}
		fields[i] = node
	}
	return schema.NewGroupNode("schema", parquet.Repetitions.Required, fields, -1)
}

func fieldNode(fld table.Field, fieldID int32) (schema.Node, error) {
	var (
		node *schema.PrimitiveNode
		err  error
	)
	switch fld.Type {
	case table.TypeInt64:
		node, err = schema.NewPrimitiveNodeLogical(fld.Name, parquet.Repetitions.Optional,
			schema.NewIntLogicalType(64, true), parquet.Types.Int64, -1, fieldID)
	case table.TypeFloat64:
		node, err = schema.NewPrimitiveNode(fld.Name, parquet.Repetitions.Optional,
			parquet.Types.Double, fieldID, -1)
	case table.TypeBool:
		node, err = schema.NewPrimitiveNode(fld.Name, parquet.Repetitions.Optional,
			parquet.Types.Boolean, fieldID, -1)
	case table.TypeTimestamp:
		node, err = schema.NewPrimitiveNodeLogical(fld.Name, parquet.Repetitions.Optional,
			schema.NewTimestampLogicalType(true, schema.TimeUnitMillis), parquet.Types.Int64, -1, fieldID)
	case table.TypeUtf8:
		node, err = schema.NewPrimitiveNodeLogical(fld.Name, parquet.Repetitions.Optional,
			schema.StringLogicalType{}, parquet.Types.ByteArray, -1, fieldID)
	default:
		return nil, fmt.Errorf("unsupported column type %q", fld.Type)
	}
	if err != nil {
		return nil, err
	}
	return node, nil
}

// writeColumns writes all columns into a single row group. Present values are
// packed densely; definition levels mark the null slots.
func writeColumns(f *os.File, root *schema.GroupNode, cols []table.ResolvedColumn) error {
	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithVersion(parquet.V2_6),
	)
	pw := file.NewParquetWriter(f, root, file.WithWriterProps(props))

	rgw := pw.AppendRowGroup()
	for i := range cols {
		cw, err := rgw.NextColumn()
		if err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
		if err := writeColumnChunk(cw, &cols[i]); err != nil {
			return fmt.Errorf("column %q: %w", cols[i].Name, err)
		}
		if err := cw.Close(); err != nil {
			return fmt.Errorf("column %q: %w", cols[i].Name, err)
		}
	}

	return pw.Close()
}

func writeColumnChunk(cw file.ColumnChunkWriter, col *table.ResolvedColumn) error {
	defLevels := make([]int16, col.Len())
	present := 0
	for i, valid := range col.Valid {
		if valid {
			defLevels[i] = 1
			present++
		}
	}

	switch col.Type {
	case table.TypeInt64:
		values := make([]int64, 0, present)
		for i, valid := range col.Valid {
			if valid {
				values = append(values, col.Ints[i])
			}
		}
		_, err := cw.(*file.Int64ColumnChunkWriter).WriteBatch(values, defLevels, nil)
		return err

	case table.TypeFloat64:
		values := make([]float64, 0, present)
		for i, valid := range col.Valid {
			if valid {
				values = append(values, col.Floats[i])
			}
		}
		_, err := cw.(*file.Float64ColumnChunkWriter).WriteBatch(values, defLevels, nil)
		return err

	case table.TypeBool:
		values := make([]bool, 0, present)
		for i, valid := range col.Valid {
			if valid {
				values = append(values, col.Bools[i])
			}
		}
		_, err := cw.(*file.BooleanColumnChunkWriter).WriteBatch(values, defLevels, nil)
		return err

	case table.TypeTimestamp:
		values := make([]int64, 0, present)
		for i, valid := range col.Valid {
			if valid {
				values = append(values, col.Timestamps[i].UnixMilli())
			}
		}
		_, err := cw.(*file.Int64ColumnChunkWriter).WriteBatch(values, defLevels, nil)
		return err

	case table.TypeUtf8:
		values := make([]parquet.ByteArray, 0, present)
		for i, valid := range col.Valid {
			if valid {
				values = append(values, parquet.ByteArray(col.Strings[i]))
			}
		}
		_, err := cw.(*file.ByteArrayColumnChunkWriter).WriteBatch(values, defLevels, nil)
		return err

	default:
		return fmt.Errorf("unsupported column type %q", col.Type)
	}
}
