package engine

import (
	"context"
	"runtime"

	"github.com/handiism/exif-batch/internal/model"
	"golang.org/x/sync/errgroup"
)

// Dispatcher partitions an ordered file list into fixed-size batches
// and runs each batch through a bounded worker pool.
//
// Within a batch, files are dispatched to workers in no particular
// order, but outcomes land in a slice indexed by input position, so
// the gathered results always match the batch's input order. Batches
// run strictly one after another; all of batch N completes before
// batch N+1 starts, which bounds the number of files open at once.
type Dispatcher struct {
	batchSize int
	workers   int
}

// NewDispatcher creates a Dispatcher. batchSize <= 0 falls back to the
// default batch size; workers <= 0 means one worker per CPU.
func NewDispatcher(batchSize, workers int) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 16
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Dispatcher{batchSize: batchSize, workers: workers}
}

// Run applies one operation to every path, batch by batch, and returns
// the outcomes in input order.
//
// apply must capture its own failures in the returned Outcome; the
// only error Run itself returns is context cancellation, which stops
// scheduling and returns the outcomes gathered so far.
func (d *Dispatcher) Run(ctx context.Context, paths []string, apply func(string) model.Outcome) ([]model.Outcome, error) {
	results := make([]model.Outcome, 0, len(paths))

	for start := 0; start < len(paths); start += d.batchSize {
		end := min(start+d.batchSize, len(paths))
		batch := paths[start:end]
		outcomes := make([]model.Outcome, len(batch))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.workers)

		for i, path := range batch {
			i, path := i, path
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				outcomes[i] = apply(path)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return results, err
		}
		results = append(results, outcomes...)
	}

	return results, nil
}
