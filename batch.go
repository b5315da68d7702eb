package mdreader

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// minWorkers ensures at least one worker is available.
const minWorkers = 1

// ResolveWorkers determines the batch worker count.
// Priority: explicit value > GOMAXPROCS (adjusted by automaxprocs in the CLI).
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}
	return max(runtime.GOMAXPROCS(0), minWorkers)
}

// ReadBatch reads paths concurrently with up to workers goroutines
// (ResolveWorkers picks the count when workers <= 0). Results are returned
// in input order. A failed document never affects the others; paths not yet
// started when ctx is done get ctx.Err().
func (r *Reader) ReadBatch(ctx context.Context, paths []string, workers int) []Result {
	if len(paths) == 0 {
		return nil
	}

	concurrency := min(ResolveWorkers(workers), len(paths))

	results := make([]Result, len(paths))
	var wg sync.WaitGroup
	jobs := make(chan int, len(paths))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = Result{Path: paths[idx], Err: err}
					continue
				}
				results[idx] = r.readOne(ctx, paths[idx])
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// readOne reads a single path and records how long it took.
func (r *Reader) readOne(ctx context.Context, path string) Result {
	start := time.Now()

	doc, err := r.ReadContext(ctx, path)
	if err != nil {
		r.logger.Warn().Err(err).Str("path", path).Msg("document skipped")
	}

	return Result{
		Path:     path,
		Document: doc,
		Err:      err,
		Duration: time.Since(start),
	}
}

// CountFailed returns the number of results carrying an error.
func CountFailed(results []Result) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	return failed
}
