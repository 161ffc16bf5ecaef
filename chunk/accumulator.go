package chunk

import (
	"context"
	"fmt"

	msd "github.com/go-sif/sif-msd"
	errors "github.com/go-sif/sif-msd/errors"
	"github.com/go-sif/sif-msd/internal/stats"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Accumulator is the row buffer and chunk counter of a single worker. It is owned
// exclusively by that worker's pipeline and is not safe for concurrent use.
type Accumulator struct {
	worker   int
	size     int
	sink     msd.RowSink
	buffer   []msd.Row
	counter  int
	stats    *stats.RunStatistics
	log      logrus.FieldLogger
	failures *multierror.Error
}

// New creates an Accumulator for the worker with the given index, flushing chunks of size Rows to sink
func New(worker int, size int, sink msd.RowSink, runStats *stats.RunStatistics, log logrus.FieldLogger) (*Accumulator, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, was %d", size)
	}
	if runStats == nil {
		runStats = &stats.RunStatistics{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Accumulator{
		worker: worker,
		size:   size,
		sink:   sink,
		buffer: make([]msd.Row, 0, size),
		stats:  runStats,
		log:    log,
	}, nil
}

// Offer appends row to the buffer. A nil or empty row is a skip and is dropped without
// counting towards the chunk size. Offering to a full buffer is an error; MaybeFlush must be
// called after each Offer.
func (a *Accumulator) Offer(row msd.Row) error {
	if len(row) == 0 {
		return nil
	}
	if len(a.buffer) >= a.size {
		return errors.ChunkFullError{Size: a.size}
	}
	a.buffer = append(a.buffer, row)
	return nil
}

// MaybeFlush persists the buffer as the next chunk iff it has reached the chunk size.
// It returns true iff a chunk was handed to the sink, whether or not persisting succeeded.
func (a *Accumulator) MaybeFlush(ctx context.Context) bool {
	if len(a.buffer) < a.size {
		return false
	}
	a.flush(ctx)
	return true
}

// Drain persists any remaining Rows as a final, possibly short, chunk. An empty
// buffer produces no chunk. It returns true iff a chunk was handed to the sink.
func (a *Accumulator) Drain(ctx context.Context) bool {
	if len(a.buffer) == 0 {
		return false
	}
	a.flush(ctx)
	return true
}

// Len returns the number of buffered Rows
func (a *Accumulator) Len() int {
	return len(a.buffer)
}

// NumChunks returns the number of chunks handed to the sink so far
func (a *Accumulator) NumChunks() int {
	return a.counter
}

// Failures returns the persist errors of every chunk the sink rejected, or nil
func (a *Accumulator) Failures() error {
	return a.failures.ErrorOrNil()
}

// flush hands the whole buffer to the sink under the next ChunkID. The ChunkID is consumed
// even when persisting fails, so a later chunk never reuses the name of a failed one.
func (a *Accumulator) flush(ctx context.Context) {
	id := msd.ChunkID{Worker: a.worker, Sequence: a.counter}
	rows := a.buffer
	a.counter++
	a.buffer = make([]msd.Row, 0, a.size)

	log := a.log.WithField("chunk", id.String())
	log.Infof("Saving chunk_id = %s (%d rows)", id, len(rows))
	if err := a.sink.Persist(ctx, id, rows); err != nil {
		perr := errors.PersistError{ChunkID: id.String(), Cause: err}
		a.failures = multierror.Append(a.failures, perr)
		a.stats.ChunkFailed()
		log.WithError(err).Error("Unable to persist chunk, continuing with the next one")
		return
	}
	a.stats.ChunkPersisted(len(rows))
}
