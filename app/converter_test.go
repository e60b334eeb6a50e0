package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"parquetry/domain/table"
	"parquetry/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader serves canned tables keyed by path
type fakeReader struct {
	tables map[string]*table.RawTable
}

func (r *fakeReader) Read(path string) (*table.RawTable, error) {
	if t, ok := r.tables[path]; ok {
		return t, nil
	}
	return nil, errors.SourceRead(path, fmt.Errorf("corrupt file"))
}

// fakeWriter records writes and can be told to fail
type fakeWriter struct {
	mu      sync.Mutex
	written map[string]table.Schema
	fail    bool
}

func (w *fakeWriter) Write(schema table.Schema, cols []table.ResolvedColumn, path string) error {
	if w.fail {
		return errors.SinkWrite(path, fmt.Errorf("disk full"))
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written == nil {
		w.written = map[string]table.Schema{}
	}
	w.written[path] = schema
	return nil
}

func simpleTable() *table.RawTable {
	return &table.RawTable{Columns: []table.RawColumn{
		{Name: "id", Cells: []table.Cell{table.NewNumberCell(1), table.NewNumberCell(2)}},
		{Name: "name", Cells: []table.Cell{table.NewTextCell("a"), table.NewTextCell("nan")}},
	}}
}

func TestConvertSuccess(t *testing.T) {
	reader := &fakeReader{tables: map[string]*table.RawTable{"in.xlsx": simpleTable()}}
	writer := &fakeWriter{}
	c := NewConverter(reader, writer)

	var checkpoints []int
	outcome := c.Convert(context.Background(), "in.xlsx", "", func(p int) {
		checkpoints = append(checkpoints, p)
	})

	require.True(t, outcome.Success, "error: %s", outcome.Error)
	assert.Equal(t, "in.xlsx", outcome.InputFile)
	assert.Equal(t, "in.parquet", outcome.OutputFile)
	assert.Empty(t, outcome.ErrorCode)

	// Checkpoints hit every stage and never decrease.
	assert.Equal(t, []int{0, 10, 30, 50, 80, 80, 100}, checkpoints)
	assert.True(t, sort.IntsAreSorted(checkpoints))

	schema, ok := writer.written["in.parquet"]
	require.True(t, ok)
	require.Len(t, schema.Fields, 2)
	assert.Equal(t, table.TypeInt64, schema.Fields[0].Type)
	assert.Equal(t, table.TypeUtf8, schema.Fields[1].Type)
	for _, f := range schema.Fields {
		assert.True(t, f.Nullable)
	}
}

func TestConvertNilProgressSink(t *testing.T) {
	reader := &fakeReader{tables: map[string]*table.RawTable{"in.xlsx": simpleTable()}}
	c := NewConverter(reader, &fakeWriter{})

	outcome := c.Convert(context.Background(), "in.xlsx", "", nil)
	assert.True(t, outcome.Success)
}

func TestConvertReadFailure(t *testing.T) {
	writer := &fakeWriter{}
	c := NewConverter(&fakeReader{}, writer)

	outcome := c.Convert(context.Background(), "missing.xlsx", "", nil)
	require.False(t, outcome.Success)
	assert.Equal(t, errors.CodeSourceRead, outcome.ErrorCode)
	assert.NotEmpty(t, outcome.Error)
	assert.Empty(t, outcome.OutputFile)
	assert.Empty(t, writer.written, "no artifact may exist after a failed read")
}

func TestConvertWriteFailure(t *testing.T) {
	reader := &fakeReader{tables: map[string]*table.RawTable{"in.xlsx": simpleTable()}}
	c := NewConverter(reader, &fakeWriter{fail: true})

	outcome := c.Convert(context.Background(), "in.xlsx", "", nil)
	require.False(t, outcome.Success)
	assert.Equal(t, errors.CodeSinkWrite, outcome.ErrorCode)
}

func TestConvertCancelledBeforeWrite(t *testing.T) {
	reader := &fakeReader{tables: map[string]*table.RawTable{"in.xlsx": simpleTable()}}
	writer := &fakeWriter{}
	c := NewConverter(reader, writer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := c.Convert(ctx, "in.xlsx", "", nil)
	require.False(t, outcome.Success)
	assert.Equal(t, errors.CodeCancelled, outcome.ErrorCode)
	assert.Empty(t, writer.written, "cancellation must never emit a partial artifact")
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "data.parquet", DefaultOutputPath("data.xlsx"))
	assert.Equal(t, "dir/report.parquet", DefaultOutputPath("dir/report.csv"))
	assert.Equal(t, "noext.parquet", DefaultOutputPath("noext"))
}

func TestConvertBatchIsolatesFailures(t *testing.T) {
	reader := &fakeReader{tables: map[string]*table.RawTable{
		"a.xlsx": simpleTable(),
		"c.xlsx": simpleTable(),
	}}
	writer := &fakeWriter{}
	c := NewConverter(reader, writer)

	outcomes := c.ConvertBatch(context.Background(), BatchRequest{
		InputFiles: []string{"a.xlsx", "b.xlsx", "c.xlsx"},
		MaxWorkers: 2,
	}, nil)

	require.Len(t, outcomes, 3)

	failures := 0
	for _, o := range outcomes {
		if !o.Success {
			failures++
			assert.Equal(t, "b.xlsx", o.InputFile)
			assert.Equal(t, errors.CodeSourceRead, o.ErrorCode)
		}
	}
	assert.Equal(t, 1, failures)
	assert.Len(t, writer.written, 2)
}

func TestConvertBatchOutputDir(t *testing.T) {
	reader := &fakeReader{tables: map[string]*table.RawTable{"in/a.xlsx": simpleTable()}}
	writer := &fakeWriter{}
	c := NewConverter(reader, writer)

	outcomes := c.ConvertBatch(context.Background(), BatchRequest{
		InputFiles: []string{"in/a.xlsx"},
		OutputDir:  "out",
	}, nil)

	require.Len(t, outcomes, 1)
	require.True(t, outcomes[0].Success)
	_, ok := writer.written["out/a.parquet"]
	assert.True(t, ok)
}

func TestConvertBatchProgressPerFile(t *testing.T) {
	reader := &fakeReader{tables: map[string]*table.RawTable{
		"a.xlsx": simpleTable(),
		"b.xlsx": simpleTable(),
	}}
	c := NewConverter(reader, &fakeWriter{})

	var mu sync.Mutex
	seen := map[string][]int{}
	c.ConvertBatch(context.Background(), BatchRequest{
		InputFiles: []string{"a.xlsx", "b.xlsx"},
	}, func(path string, percent int) {
		mu.Lock()
		seen[path] = append(seen[path], percent)
		mu.Unlock()
	})

	require.Len(t, seen, 2)
	for path, checkpoints := range seen {
		assert.True(t, sort.IntsAreSorted(checkpoints), "checkpoints for %s", path)
		assert.Equal(t, 100, checkpoints[len(checkpoints)-1])
	}
}

func TestConvertBatchCancelledReportsEveryFile(t *testing.T) {
	reader := &fakeReader{tables: map[string]*table.RawTable{
		"a.xlsx": simpleTable(),
		"b.xlsx": simpleTable(),
		"c.xlsx": simpleTable(),
	}}
	writer := &fakeWriter{}
	c := NewConverter(reader, writer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := c.ConvertBatch(ctx, BatchRequest{
		InputFiles: []string{"a.xlsx", "b.xlsx", "c.xlsx"},
		MaxWorkers: 1,
	}, nil)

	require.Len(t, outcomes, 3, "a shut-down pool must still report every file")
	for _, o := range outcomes {
		assert.False(t, o.Success)
		assert.Equal(t, errors.CodeCancelled, o.ErrorCode)
	}
	assert.Empty(t, writer.written)
}

func TestConvertBatchEmptyInput(t *testing.T) {
	c := NewConverter(&fakeReader{}, &fakeWriter{})
	outcomes := c.ConvertBatch(context.Background(), BatchRequest{}, nil)
	assert.Empty(t, outcomes)
}
