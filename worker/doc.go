// Package worker drives the conversion pipeline of a single worker: it computes the worker's
// shard, enumerates the shard's files, extracts one Row per file, and flushes fixed-size chunks
// of Rows to a sink.
package worker
