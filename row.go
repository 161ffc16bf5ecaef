package msd

import (
	"context"
	"fmt"
)

// Row is an ordered sequence of stringified field values extracted from one song
type Row []string

// Extractor converts a single input file into a Row. Any returned error means the
// file must be skipped: it contributes nothing to the output and processing continues.
type Extractor interface {
	Extract(path string) (Row, error)
}

// ChunkID identifies a chunk uniquely across all workers
type ChunkID struct {
	Worker   int // index of the worker which produced the chunk
	Sequence int // zero-based, sequential per worker
}

// String returns the canonical "{worker}_{sequence}" form of this ChunkID
func (id ChunkID) String() string {
	return fmt.Sprintf("%d_%d", id.Worker, id.Sequence)
}

// RowSink durably persists one chunk of Rows. Retrying is the RowSink's own concern.
type RowSink interface {
	Persist(ctx context.Context, id ChunkID, rows []Row) error
}
