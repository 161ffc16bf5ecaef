// Package msd contains the core components of sif-msd, a sharded converter which extracts
// song features from a directory tree of per-song HDF5 files and republishes them as
// fixed-size CSV chunks. This root package defines the types shared by the shard assignor,
// the file enumerator, the record extractor, the chunk accumulator and the row sinks,
// and is an overview of how a single worker's pipeline fits together.
package msd
