// Package shard statically divides a fixed Alphabet of partition keys among a pool of
// independent workers. Each worker computes its own share from its Identity and the
// pool size alone, so no coordination is needed: every key is owned by exactly one worker.
package shard
