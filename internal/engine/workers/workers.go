// Package workers splits index ranges across goroutines.
package workers

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Count resolves a requested worker count: values <= 0 mean GOMAXPROCS.
func Count(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// Bands splits [0, n) into contiguous bands and runs fn on each band
// concurrently, using at most workers goroutines. Cancellation is checked
// before each band starts; a band that has started always completes.
func Bands(ctx context.Context, n, workers int, fn func(lo, hi int)) error {
	if n <= 0 {
		return ctx.Err()
	}
	workers = min(Count(workers), n)
	if workers == 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(0, n)
		return nil
	}

	per := (n + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += per {
		hi := min(lo+per, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}
