package msd

import "time"

// RuntimeStatistics facilitates the retrieval of statistics about a running worker
type RuntimeStatistics interface {
	// GetStartTime returns the start time of the worker
	GetStartTime() time.Time
	// GetRuntime returns the running time of the worker
	GetRuntime() time.Duration
	// GetNumFilesEnumerated returns the number of input files seen so far
	GetNumFilesEnumerated() int64
	// GetNumRowsExtracted returns the number of Rows successfully extracted so far
	GetNumRowsExtracted() int64
	// GetNumFilesSkipped returns the number of input files which could not be converted
	GetNumFilesSkipped() int64
	// GetNumChunksPersisted returns the number of chunks a RowSink accepted
	GetNumChunksPersisted() int64
	// GetNumChunksFailed returns the number of chunks a RowSink failed to persist
	GetNumChunksFailed() int64
	// GetNumRowsPersisted returns the number of Rows within persisted chunks
	GetNumRowsPersisted() int64
	// GetSlowestFileTime returns the longest time spent extracting a single file
	GetSlowestFileTime() time.Duration
}
