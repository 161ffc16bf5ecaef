package worker

import (
	msd "github.com/go-sif/sif-msd"
	"github.com/go-sif/sif-msd/shard"
)

// Report summarizes a finished Worker run. NumChunks counts every chunk handed to the sink,
// including failed ones. PersistErrors holds a PersistError for every failed chunk and
// SkipErrors a SkipError for every skipped file when they are collected; both are nil otherwise.
type Report struct {
	RunID         string
	Identity      shard.Identity
	Keys          msd.Alphabet
	NumChunks     int
	Stats         msd.RuntimeStatistics
	PersistErrors error
	SkipErrors    error
}

// Succeeded returns true iff every chunk was persisted
func (r *Report) Succeeded() bool {
	return r.PersistErrors == nil
}
