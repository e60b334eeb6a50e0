package app

import (
	"context"
	"log"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"parquetry/ports"

	"golang.org/x/sync/semaphore"
)

// BatchRequest describes one batch conversion run
type BatchRequest struct {
	InputFiles []string
	OutputDir  string // empty means next to each input
	MaxWorkers int    // 0 means min(CPU count, file count)
}

// ConvertBatch runs one independent conversion per input file on a bounded
// worker pool. Outcomes are appended as conversions complete, not in
// submission order. A file's failure never affects any other file; no state
// is shared across files beyond the concurrency bound itself.
func (c *Converter) ConvertBatch(ctx context.Context, req BatchRequest, progress ports.BatchProgressFunc) []Outcome {
	workers := req.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(req.InputFiles) {
		workers = len(req.InputFiles)
	}
	if workers < 1 {
		workers = 1
	}

	log.Printf("[Batch] Converting %d files with %d workers", len(req.InputFiles), workers)

	sem := semaphore.NewWeighted(int64(workers))
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		outcomes []Outcome
	)

	for _, inputPath := range req.InputFiles {
		wg.Add(1)
		go func(inputPath string) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				// Pool shut down before this file started; report it as a
				// cancelled outcome rather than dropping it.
				outcome := c.Convert(ctx, inputPath, c.batchOutputPath(req.OutputDir, inputPath), nil)
				mu.Lock()
				outcomes = append(outcomes, outcome)
				mu.Unlock()
				return
			}
			defer sem.Release(1)

			var sink ports.ProgressFunc
			if progress != nil {
				sink = func(percent int) { progress(inputPath, percent) }
			}

			outcome := c.Convert(ctx, inputPath, c.batchOutputPath(req.OutputDir, inputPath), sink)

			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
		}(inputPath)
	}

	wg.Wait()
	return outcomes
}

// batchOutputPath places the output in the requested directory, or next to
// the input when no directory was given.
func (c *Converter) batchOutputPath(outputDir, inputPath string) string {
	if outputDir == "" {
		return ""
	}
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".parquet"
	return filepath.Join(outputDir, name)
}
