package excelfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"parquetry/domain/table"
	"parquetry/internal"
	"parquetry/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Reader loads .xlsx and .csv files into raw tables. Only the first sheet of
// a workbook is read; multi-sheet handling is out of scope.
type Reader struct {
	logger *internal.Logger // Logger for controlled verbosity
}

// NewReader creates a spreadsheet reader
func NewReader() *Reader {
	return &Reader{logger: internal.NewDefaultLogger()}
}

// Read loads the file at path into a fully materialized raw table
func (r *Reader) Read(path string) (*table.RawTable, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.SourceRead(path, fmt.Errorf("file not found"))
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = r.readExcelRows(path)
	case ".csv":
		rows, err = readCSVRows(path)
	default:
		err = fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, errors.SourceRead(path, err)
	}

	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.SourceRead(path, fmt.Errorf("no header row"))
	}

	t := buildTable(rows)
	r.logger.Info("[Reader] %s loaded (%d columns, %d rows)", path, len(t.Columns), t.RowCount())
	return t, nil
}

// readExcelRows reads the first sheet of a workbook as formatted strings
func (r *Reader) readExcelRows(path string) ([][]string, error) {
	start := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	r.logger.Debug("[Reader] sheet %q read in %.2fms (%d rows)",
		sheets[0], float64(time.Since(start).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// readCSVRows reads a CSV file in full
func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	// Strip a UTF-8 BOM left by spreadsheet exports.
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	}
	return rows, nil
}

// buildTable converts string rows into a column-oriented raw table with
// lexically tagged cells. The first row is the header; shorter data rows are
// padded with absent cells so every column has the full row count.
func buildTable(rows [][]string) *table.RawTable {
	headers := rows[0]
	dataRows := rows[1:]

	columns := make([]table.RawColumn, len(headers))
	for i, header := range headers {
		columns[i] = table.RawColumn{
			Name:  strings.TrimSpace(header),
			Cells: make([]table.Cell, len(dataRows)),
		}
	}

	for rowIdx, row := range dataRows {
		for colIdx := range columns {
			if colIdx < len(row) {
				columns[colIdx].Cells[rowIdx] = tagCell(row[colIdx])
			} else {
				columns[colIdx].Cells[rowIdx] = table.NewAbsentCell()
			}
		}
	}

	// A column counts as declared-timestamp when the source produced at least
	// one date/time cell in it; the resolver still demands that every present
	// cell is a timestamp before assigning the type.
	for i := range columns {
		for _, c := range columns[i].Cells {
			if c.Kind == table.KindTimestamp {
				columns[i].DeclaredTimestamp = true
				break
			}
		}
	}

	return &table.RawTable{Columns: columns}
}

// dateLayouts are the formats a cell must match, in full, to be tagged as a
// timestamp. Ordered longest first so date-times are not misread as dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"01-02-06 15:04",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// tagCell classifies one raw string cell. Tagging is lexical: booleans, then
// numbers, then date layouts, then text. Empty cells are absent outright; the
// remaining sentinel tokens are the normalizer's job.
func tagCell(s string) table.Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return table.NewAbsentCell()
	}

	switch trimmed {
	case "TRUE", "True", "true":
		return table.NewBoolCell(true)
	case "FALSE", "False", "false":
		return table.NewBoolCell(false)
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return table.NewNumberCell(f)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return table.NewTimestampCell(t.UTC())
		}
	}

	return table.NewTextCell(s)
}
