package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"parquetry/adapters/excelfile"
	"parquetry/adapters/parquetfile"
	"parquetry/app"
	"parquetry/domain/profile"
	"parquetry/domain/table"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "parquetry",
		Short: "Convert spreadsheets to parquet",
	}

	rootCmd.AddCommand(
		newConvertCmd(),
		newInspectCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newConvertCmd() *cobra.Command {
	var outDir string
	var workers int

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert one or more .xlsx/.csv files to parquet",
		Long: `Convert spreadsheet files to parquet. Each file is converted
independently; one bad file never stops the rest.

Example: parquetry convert sales.xlsx orders.csv --out-dir converted --workers 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			converter := app.NewConverter(excelfile.NewReader(), parquetfile.NewWriter())
			outcomes := converter.ConvertBatch(ctx, app.BatchRequest{
				InputFiles: args,
				OutputDir:  outDir,
				MaxWorkers: workers,
			}, func(file string, pct int) {
				fmt.Printf("%s: %d%%\n", file, pct)
			})

			failed := 0
			for _, o := range outcomes {
				if o.Success {
					fmt.Printf("ok   %s -> %s (%s -> %s, %s)\n",
						o.InputFile, o.OutputFile,
						app.FormatSize(o.InputSize), app.FormatSize(o.OutputSize),
						app.FormatDuration(o.Elapsed))
				} else {
					failed++
					fmt.Printf("fail %s: %s (%s)\n", o.InputFile, o.Error, o.ErrorCode)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d conversions failed", failed, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for parquet output (default: next to each input)")
	cmd.Flags().IntVar(&workers, "workers", 0, "max concurrent conversions (0 = CPU count)")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show the resolved schema and column summaries without converting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := excelfile.NewReader().Read(args[0])
			if err != nil {
				return err
			}

			schema, cols := table.Resolve(table.NormalizeTable(raw))
			summaries := profile.SummarizeAll(cols)

			if asJSON {
				out, err := json.MarshalIndent(map[string]interface{}{
					"schema":  schema,
					"columns": summaries,
					"rows":    raw.RowCount(),
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			fmt.Printf("%s: %d rows, %d columns\n\n", args[0], raw.RowCount(), len(schema.Fields))
			for _, s := range summaries {
				fmt.Printf("%-24s %-10s nulls=%d (%.1f%%)", s.Name, s.Type, s.MissingCount, s.MissingRate*100)
				if s.Numeric != nil {
					fmt.Printf("  min=%g max=%g mean=%.4g stddev=%.4g",
						s.Numeric.Min, s.Numeric.Max, s.Numeric.Mean, s.Numeric.StdDev)
				}
				if s.UniqueCount > 0 {
					fmt.Printf("  unique=%d", s.UniqueCount)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a table")
	return cmd
}
