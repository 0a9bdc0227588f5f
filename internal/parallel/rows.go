// Package parallel splits per-pixel passes into scanline batches and runs them
// on a bounded errgroup.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minBatchRows keeps tiny images from being split into goroutine-sized
// slivers.
const minBatchRows = 16

// RowFunc processes rows [y0, y1).
type RowFunc func(y0, y1 int) error

// Workers normalizes a worker count, defaulting to GOMAXPROCS.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// Batches returns the [start, end) row ranges Rows would hand to fn.
func Batches(height, workers int) [][2]int {
	if height <= 0 {
		return nil
	}
	workers = Workers(workers)
	// a few batches per worker so a slow batch doesn't stall the tail
	size := max(minBatchRows, (height+workers*4-1)/(workers*4))
	out := make([][2]int, 0, (height+size-1)/size)
	for y := 0; y < height; y += size {
		out = append(out, [2]int{y, min(height, y+size)})
	}
	return out
}

// Rows runs fn over [0, height) in contiguous batches on at most workers
// goroutines. The context is checked before each batch starts; the first
// error (or cancellation) stops new batches and is returned.
func Rows(ctx context.Context, height, workers int, fn RowFunc) error {
	batches := Batches(height, workers)
	if len(batches) == 0 {
		return ctx.Err()
	}
	if len(batches) == 1 || Workers(workers) == 1 {
		for _, b := range batches {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(b[0], b[1]); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(workers))
	for _, b := range batches {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(b[0], b[1])
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
