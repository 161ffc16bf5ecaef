package datasource

import (
	msd "github.com/go-sif/sif-msd"
)

// shardIterator concatenates the FileIterators of several PartitionKeys, in key order
type shardIterator struct {
	enumerator msd.FileEnumerator
	keys       msd.Alphabet
	current    msd.FileIterator
}

// Concat produces a single lazy FileIterator over every file of every key, visiting keys
// in the order given. Each key's subtree is only enumerated once the previous one is exhausted.
func Concat(enumerator msd.FileEnumerator, keys msd.Alphabet) msd.FileIterator {
	return &shardIterator{enumerator: enumerator, keys: keys}
}

// HasNext returns true iff any remaining key has another file
func (si *shardIterator) HasNext() bool {
	for {
		if si.current != nil && si.current.HasNext() {
			return true
		}
		if len(si.keys) == 0 {
			return false
		}
		si.current = si.enumerator.Enumerate(si.keys[0])
		si.keys = si.keys[1:]
	}
}

// Next returns the next file path
func (si *shardIterator) Next() string {
	if !si.HasNext() {
		panic("Next called on an exhausted shard iterator")
	}
	return si.current.Next()
}
