package msd

// FileIterator is a lazy, finite sequence of input file paths. It cannot be
// restarted; a fresh FileIterator must be requested from a FileEnumerator instead.
type FileIterator interface {
	HasNext() bool
	Next() string
}

// FileEnumerator lists every input file found below a PartitionKey's subtree.
// A key with no subtree produces an empty FileIterator rather than an error.
type FileEnumerator interface {
	Enumerate(key PartitionKey) FileIterator
}
