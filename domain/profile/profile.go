package profile

import (
	"parquetry/domain/table"

	"github.com/montanaflynn/stats"
)

// ColumnSummary describes one resolved column for previews and dry runs
type ColumnSummary struct {
	Name         string           `json:"name"`
	Type         table.ColumnType `json:"type"`
	Rows         int              `json:"rows"`
	MissingCount int              `json:"missing_count"`
	MissingRate  float64          `json:"missing_rate"`
	UniqueCount  int              `json:"unique_count,omitempty"`
	Numeric      *NumericSummary  `json:"numeric,omitempty"`
}

// NumericSummary holds descriptive statistics for numeric columns
type NumericSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Summarize computes a summary for one resolved column
func Summarize(col *table.ResolvedColumn) ColumnSummary {
	rows := col.Len()
	missing := col.NullCount()

	summary := ColumnSummary{
		Name:         col.Name,
		Type:         col.Type,
		Rows:         rows,
		MissingCount: missing,
	}
	if rows > 0 {
		summary.MissingRate = float64(missing) / float64(rows)
	}

	switch col.Type {
	case table.TypeInt64, table.TypeFloat64:
		summary.Numeric = numericSummary(col)
	case table.TypeUtf8:
		summary.UniqueCount = uniqueStrings(col)
	}

	return summary
}

// SummarizeAll summarizes every column of a resolved table
func SummarizeAll(cols []table.ResolvedColumn) []ColumnSummary {
	summaries := make([]ColumnSummary, len(cols))
	for i := range cols {
		summaries[i] = Summarize(&cols[i])
	}
	return summaries
}

func numericSummary(col *table.ResolvedColumn) *NumericSummary {
	values := make(stats.Float64Data, 0, col.Len()-col.NullCount())
	for i, valid := range col.Valid {
		if !valid {
			continue
		}
		if col.Type == table.TypeInt64 {
			values = append(values, float64(col.Ints[i]))
		} else {
			values = append(values, col.Floats[i])
		}
	}
	if len(values) == 0 {
		return nil
	}

	// stats errors only on empty input, which is excluded above.
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	mean, _ := stats.Mean(values)
	stddev, _ := stats.StandardDeviation(values)

	return &NumericSummary{Min: min, Max: max, Mean: mean, StdDev: stddev}
}

func uniqueStrings(col *table.ResolvedColumn) int {
	seen := make(map[string]bool)
	for i, valid := range col.Valid {
		if valid {
			seen[col.Strings[i]] = true
		}
	}
	return len(seen)
}
