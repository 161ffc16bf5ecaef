package stats

import (
	"time"
)

// RunStatistics contains statistics about a running worker. It is owned by a single
// worker's pipeline and is not safe for concurrent use.
type RunStatistics struct {
	started          bool
	startTime        time.Time
	totalRuntime     time.Duration
	finished         bool
	filesEnumerated  int64
	rowsExtracted    int64
	filesSkipped     int64
	chunksPersisted  int64
	chunksFailed     int64
	rowsPersisted    int64
	currentFileStart time.Time
	slowestFile      time.Duration
}

// Start triggers statistics tracking, if it hasn't been started already
func (rs *RunStatistics) Start() {
	if !rs.started {
		rs.started = true
		rs.startTime = time.Now()
	}
}

// Finish completes statistics tracking
func (rs *RunStatistics) Finish() {
	if rs.started && !rs.finished {
		rs.finished = true
		rs.totalRuntime = time.Since(rs.startTime)
	}
}

// StartFile tracks the beginning of the processing of an input file
func (rs *RunStatistics) StartFile() {
	rs.filesEnumerated++
	rs.currentFileStart = time.Now()
}

// EndFile tracks the end of the processing of an input file
func (rs *RunStatistics) EndFile(skipped bool) {
	if elapsed := time.Since(rs.currentFileStart); elapsed > rs.slowestFile {
		rs.slowestFile = elapsed
	}
	if skipped {
		rs.filesSkipped++
	} else {
		rs.rowsExtracted++
	}
}

// ChunkPersisted tracks a chunk of numRows Rows accepted by a sink
func (rs *RunStatistics) ChunkPersisted(numRows int) {
	rs.chunksPersisted++
	rs.rowsPersisted += int64(numRows)
}

// ChunkFailed tracks a chunk a sink failed to persist
func (rs *RunStatistics) ChunkFailed() {
	rs.chunksFailed++
}

// GetStartTime returns the start time of the worker
func (rs *RunStatistics) GetStartTime() time.Time {
	return rs.startTime
}

// GetRuntime returns the running time of the worker
func (rs *RunStatistics) GetRuntime() time.Duration {
	if rs.finished {
		return rs.totalRuntime
	} else if !rs.started {
		return 0
	}
	return time.Since(rs.startTime)
}

// GetNumFilesEnumerated returns the number of input files seen so far
func (rs *RunStatistics) GetNumFilesEnumerated() int64 {
	return rs.filesEnumerated
}

// GetNumRowsExtracted returns the number of Rows successfully extracted so far
func (rs *RunStatistics) GetNumRowsExtracted() int64 {
	return rs.rowsExtracted
}

// GetNumFilesSkipped returns the number of input files which could not be converted
func (rs *RunStatistics) GetNumFilesSkipped() int64 {
	return rs.filesSkipped
}

// GetNumChunksPersisted returns the number of chunks a sink accepted
func (rs *RunStatistics) GetNumChunksPersisted() int64 {
	return rs.chunksPersisted
}

// GetNumChunksFailed returns the number of chunks a sink failed to persist
func (rs *RunStatistics) GetNumChunksFailed() int64 {
	return rs.chunksFailed
}

// GetNumRowsPersisted returns the number of Rows within persisted chunks
func (rs *RunStatistics) GetNumRowsPersisted() int64 {
	return rs.rowsPersisted
}

// GetSlowestFileTime returns the longest time spent extracting a single file
func (rs *RunStatistics) GetSlowestFileTime() time.Duration {
	return rs.slowestFile
}
