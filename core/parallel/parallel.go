// Package parallel splits index ranges across goroutines. Callers write results into
// pre-sized slices by index, so output order never depends on scheduling.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// ParallelizeWorkers divides items into one contiguous range per worker and runs fn
// on each range (start, end) concurrently. workers <= 0 means one per CPU core.
func ParallelizeWorkers(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items
	}
	if workers == 1 {
		fn(0, items)
		return
	}

	// ceiling division
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ForEach calls fn once per index using up to workers goroutines. It stops handing
// out indices once ctx is done and returns ctx.Err() in that case; otherwise it
// returns the error of the lowest index that failed.
func ForEach(ctx context.Context, items, workers int, fn func(i int) error) error {
	if items <= 0 {
		return ctx.Err()
	}
	errs := make([]error, items)
	ParallelizeWorkers(items, workers, func(start, end int) {
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}
			errs[i] = fn(i)
		}
	})
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
