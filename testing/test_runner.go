package testing

import (
	"context"
	"fmt"

	errors "github.com/go-sif/sif-msd/errors"
	"github.com/go-sif/sif-msd/worker"
	"golang.org/x/sync/errgroup"
)

// OptionsFactory builds the Options of one worker of a pool
type OptionsFactory func(ctx context.Context, workerID int) (*worker.Options, error)

// LocalRun runs every worker of a pool of numWorkers concurrently within this process, one
// goroutine per worker, and returns their Reports indexed by worker ID. Workers share no state
// beyond what the factory gives them, and each runs its shard to completion even when another
// fails. The first configuration error or panic is returned, alongside the Reports of every
// worker which finished (the Report of a worker which did not finish is nil).
func LocalRun(ctx context.Context, numWorkers int, factory OptionsFactory) (reports []*worker.Report, err error) {
	if numWorkers <= 0 {
		return nil, errors.InvalidWorkerError{Total: numWorkers}
	}
	// build every worker before running any, so that a bad configuration fails before any I/O
	workers := make([]*worker.Worker, numWorkers)
	for i := range workers {
		opts, err := factory(ctx, i)
		if err != nil {
			return nil, err
		}
		opts.NumWorkers = numWorkers
		opts.WorkerID = i
		if workers[i], err = worker.CreateWorker(opts); err != nil {
			return nil, err
		}
	}
	reports = make([]*worker.Report, numWorkers)
	var g errgroup.Group
	for i, w := range workers {
		i, w := i, w
		g.Go(func() (err error) {
			// handle panics
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("worker %d panicked: %v", i, r)
				}
			}()
			report, err := w.Run(ctx)
			reports[i] = report
			return err
		})
	}
	return reports, g.Wait()
}
