package worker

import (
	"context"
	"fmt"

	msd "github.com/go-sif/sif-msd"
	"github.com/go-sif/sif-msd/chunk"
	"github.com/go-sif/sif-msd/config"
	"github.com/go-sif/sif-msd/datasource"
	errors "github.com/go-sif/sif-msd/errors"
	"github.com/go-sif/sif-msd/internal/stats"
	"github.com/go-sif/sif-msd/internal/util"
	"github.com/go-sif/sif-msd/shard"
	uuid "github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Options configures a Worker
type Options struct {
	NumWorkers        int                // Total number of workers sharing the alphabet
	WorkerID          int                // Index of this worker, in [0, NumWorkers)
	Alphabet          msd.Alphabet       // Partition keys shared by every worker. Defaults to A-Z.
	Strategy          shard.Strategy     // Defaults to striped
	ChunkSize         int                // Rows per chunk. Defaults to config.ChunkSize.
	Enumerator        msd.FileEnumerator // Lists the files of each partition key
	Extractor         msd.Extractor      // Converts one file into one Row
	Sink              msd.RowSink        // Persists chunks
	Logger            logrus.FieldLogger // Defaults to the standard logrus logger
	RunID             string             // Identifies this invocation in logs. Defaults to a random UUID.
	CollectSkipErrors bool               // Keep the cause of every skipped file on the Report
}

func ensureDefaultOptionsValues(opts *Options) {
	if opts.Alphabet == nil {
		opts.Alphabet = msd.DefaultAlphabet()
	}
	if len(opts.Strategy) == 0 {
		opts.Strategy = shard.Striped
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = config.ChunkSize
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
}

// Worker runs the pipeline over one shard. A Worker may only be run once.
type Worker struct {
	opts     *Options
	identity shard.Identity
	keys     msd.Alphabet
	log      *logrus.Entry
	stats    *stats.RunStatistics
	acc      *chunk.Accumulator
	skips    *multierror.Error
	ran      bool
}

// CreateWorker is a factory for Workers. It validates the worker's identity and computes its
// shard, and performs no I/O.
func CreateWorker(opts *Options) (*Worker, error) {
	ensureDefaultOptionsValues(opts)
	identity := shard.Identity{Total: opts.NumWorkers, Index: opts.WorkerID}
	keys, err := shard.Assign(opts.Alphabet, identity, opts.Strategy)
	if err != nil {
		return nil, err
	}
	if opts.Enumerator == nil || opts.Extractor == nil || opts.Sink == nil {
		return nil, fmt.Errorf("a worker requires an Enumerator, an Extractor and a Sink")
	}
	if len(opts.RunID) == 0 {
		id, err := uuid.NewV4()
		if err != nil {
			return nil, fmt.Errorf("failed to generate UUID: %v", err)
		}
		opts.RunID = id.String()
	}
	log := opts.Logger.WithFields(logrus.Fields{
		"worker":  identity.Index,
		"workers": identity.Total,
		"run":     opts.RunID,
	})
	runStats := &stats.RunStatistics{}
	acc, err := chunk.New(identity.Index, opts.ChunkSize, opts.Sink, runStats, log)
	if err != nil {
		return nil, err
	}
	return &Worker{
		opts:     opts,
		identity: identity,
		keys:     keys,
		log:      log,
		stats:    runStats,
		acc:      acc,
	}, nil
}

// ID returns the run ID of this worker
func (w *Worker) ID() string {
	return w.opts.RunID
}

// Keys returns the partition keys owned by this worker
func (w *Worker) Keys() msd.Alphabet {
	return w.keys
}

// Run processes every file of the worker's shard, blocking until the last chunk has been
// handed to the sink. Skipped files and failed chunks are reported, never returned as errors.
func (w *Worker) Run(ctx context.Context) (*Report, error) {
	if w.ran {
		return nil, fmt.Errorf("worker %d has already been run", w.identity.Index)
	}
	w.ran = true
	w.log.Infof("processing partition keys %v", w.keys.Strings())
	w.stats.Start()
	files := datasource.Concat(w.opts.Enumerator, w.keys)
	for files.HasNext() {
		path := files.Next()
		w.stats.StartFile()
		row, err := w.opts.Extractor.Extract(path)
		if err == nil && len(row) == 0 {
			err = fmt.Errorf("extractor returned an empty row")
		}
		if err != nil {
			w.skip(path, err)
			continue
		}
		w.stats.EndFile(false)
		if err = w.acc.Offer(row); err != nil {
			return nil, err
		}
		w.acc.MaybeFlush(ctx)
	}
	w.acc.Drain(ctx)
	w.stats.Finish()
	report := w.report()
	w.log.WithFields(logrus.Fields{
		"files":        w.stats.GetNumFilesEnumerated(),
		"rows":         w.stats.GetNumRowsExtracted(),
		"skipped":      w.stats.GetNumFilesSkipped(),
		"chunks":       w.stats.GetNumChunksPersisted(),
		"failedChunks": w.stats.GetNumChunksFailed(),
		"runtime":      w.stats.GetRuntime().String(),
		"slowestFile":  w.stats.GetSlowestFileTime().String(),
	}).Info("Finished processing shard")
	if merr, ok := report.PersistErrors.(*multierror.Error); ok {
		w.log.Errorf("Chunks which could not be persisted:\n%s", util.FormatMultiError(merr.Errors))
	}
	if merr, ok := report.SkipErrors.(*multierror.Error); ok {
		w.log.Warnf("Skipped files:\n%s", util.FormatMultiError(merr.Errors))
	}
	return report, nil
}

func (w *Worker) skip(path string, err error) {
	w.stats.EndFile(true)
	skipErr, ok := err.(errors.SkipError)
	if !ok {
		skipErr = errors.SkipError{Path: path, Cause: err}
	}
	w.log.WithField("path", path).WithError(skipErr.Cause).Warn("Skipping file")
	if w.opts.CollectSkipErrors {
		w.skips = multierror.Append(w.skips, skipErr)
	}
}

func (w *Worker) report() *Report {
	return &Report{
		RunID:         w.opts.RunID,
		Identity:      w.identity,
		Keys:          w.keys,
		NumChunks:     w.acc.NumChunks(),
		Stats:         w.stats,
		PersistErrors: w.acc.Failures(),
		SkipErrors:    w.skips.ErrorOrNil(),
	}
}
