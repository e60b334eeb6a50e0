package app

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"parquetry/domain/table"
	"parquetry/internal/errors"
	"parquetry/ports"
)

// Stage identifies where a conversion currently is in its pipeline
type Stage string

const (
	StagePending     Stage = "pending"
	StageReading     Stage = "reading"
	StageNormalizing Stage = "normalizing"
	StageResolving   Stage = "resolving"
	StageCoercing    Stage = "coercing"
	StageWriting     Stage = "writing"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// stageProgress maps each stage entry to its progress checkpoint. Checkpoints
// are monotonically non-decreasing through the pipeline.
var stageProgress = map[Stage]int{
	StagePending:     0,
	StageReading:     10,
	StageNormalizing: 30,
	StageResolving:   50,
	StageCoercing:    80,
	StageWriting:     80,
	StageDone:        100,
}

// Outcome is the immutable result of one file conversion, successful or not.
// Owned by the caller once returned.
type Outcome struct {
	Success    bool          `json:"success"`
	InputFile  string        `json:"input_file"`
	OutputFile string        `json:"output_file,omitempty"`
	InputSize  int64         `json:"input_size"`
	OutputSize int64         `json:"output_size"`
	Elapsed    time.Duration `json:"elapsed"`
	ErrorCode  string        `json:"error_code,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// Converter drives one file through read → normalize → resolve → coerce →
// write, reporting progress checkpoints along the way.
type Converter struct {
	reader ports.Reader
	writer ports.Writer
}

// NewConverter creates a converter over the given reader and writer
func NewConverter(reader ports.Reader, writer ports.Writer) *Converter {
	return &Converter{reader: reader, writer: writer}
}

// DefaultOutputPath swaps the input's extension for .parquet in place
func DefaultOutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".parquet"
}

// Convert converts a single file. An empty outputPath defaults to the input's
// base name with a .parquet extension. The progress sink is optional. The
// context cancels cooperatively: once the writer has been invoked the artifact
// is either completed or not created at all; no partial output survives a
// cancellation or a failure.
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string, progress ports.ProgressFunc) Outcome {
	start := time.Now()

	if outputPath == "" {
		outputPath = DefaultOutputPath(inputPath)
	}

	report := func(stage Stage) {
		if progress != nil {
			progress(stageProgress[stage])
		}
	}
	fail := func(err error) Outcome {
		log.Printf("[Converter] %s failed: %v", inputPath, err)
		return Outcome{
			Success:   false,
			InputFile: inputPath,
			InputSize: fileSize(inputPath),
			Elapsed:   time.Since(start),
			ErrorCode: errors.GetCode(err),
			Error:     err.Error(),
		}
	}

	report(StagePending)

	// Reading
	if err := ctx.Err(); err != nil {
		return fail(errors.Cancelled(inputPath))
	}
	report(StageReading)
	raw, err := c.reader.Read(inputPath)
	if err != nil {
		return fail(errors.WithCode(errors.CodeSourceRead, err))
	}

	// Normalizing
	if err := ctx.Err(); err != nil {
		return fail(errors.Cancelled(inputPath))
	}
	report(StageNormalizing)
	normalized := table.NormalizeTable(raw)

	// Resolving + Coercing. Both are total by construction; the split exists
	// for the progress checkpoints.
	if err := ctx.Err(); err != nil {
		return fail(errors.Cancelled(inputPath))
	}
	report(StageResolving)
	types := make([]table.ColumnType, len(normalized.Columns))
	for i, col := range normalized.Columns {
		types[i] = table.ResolveColumnType(col)
	}

	if err := ctx.Err(); err != nil {
		return fail(errors.Cancelled(inputPath))
	}
	report(StageCoercing)
	cols := make([]table.ResolvedColumn, len(normalized.Columns))
	for i, col := range normalized.Columns {
		cols[i] = table.CoerceColumn(col, types[i])
	}
	schema := table.BuildSchema(cols)

	// Writing. Last cancellation point: cancellation is honored only before
	// the writer is invoked.
	if err := ctx.Err(); err != nil {
		return fail(errors.Cancelled(inputPath))
	}
	report(StageWriting)
	if err := c.writer.Write(schema, cols, outputPath); err != nil {
		return fail(errors.WithCode(errors.CodeSinkWrite, err))
	}

	report(StageDone)
	elapsed := time.Since(start)
	log.Printf("[Converter] %s -> %s (%d rows, %d columns, %s)",
		inputPath, outputPath, raw.RowCount(), len(raw.Columns), FormatDuration(elapsed))

	return Outcome{
		Success:    true,
		InputFile:  inputPath,
		OutputFile: outputPath,
		InputSize:  fileSize(inputPath),
		OutputSize: fileSize(outputPath),
		Elapsed:    elapsed,
	}
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
