package errors

import (
	"fmt"
)

// InvalidWorkerError occurs when a worker identity is outside the range [0, total)
type InvalidWorkerError struct {
	Total int
	Index int
}

// Error returns a textual representation of this InvalidWorkerError
func (e InvalidWorkerError) Error() string {
	if e.Total <= 0 {
		return fmt.Sprintf("num_workers must be a positive integer, was %d", e.Total)
	}
	return fmt.Sprintf("worker_id must be in [0, %d), was %d", e.Total, e.Index)
}

// EmptyAlphabetError occurs when a partition key alphabet contains no keys
type EmptyAlphabetError struct{}

// Error returns a textual representation of this EmptyAlphabetError
func (e EmptyAlphabetError) Error() string {
	return "Partition key alphabet is empty"
}

// DuplicateKeyError occurs when a partition key alphabet names the same key twice
type DuplicateKeyError struct{ Key string }

// Error returns a textual representation of this DuplicateKeyError
func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf("Partition key %q appears more than once in the alphabet", e.Key)
}

// SkipError occurs when a single input file cannot be converted into a Row.
// It is never fatal: the file is omitted from the output and processing continues.
type SkipError struct {
	Path  string
	Cause error
}

// Error returns a textual representation of this SkipError
func (e SkipError) Error() string {
	return fmt.Sprintf("skipping %s: %v", e.Path, e.Cause)
}

// Unwrap returns the reason this file was skipped
func (e SkipError) Unwrap() error {
	return e.Cause
}

// NaNSentinelError occurs when a sentinel field of a song holds NaN, marking the song as unusable
type NaNSentinelError struct{ Field string }

// Error returns a textual representation of this NaNSentinelError
func (e NaNSentinelError) Error() string {
	return fmt.Sprintf("Sentinel field %s is NaN", e.Field)
}

// MissingFieldError occurs when a song file does not contain a requested field
type MissingFieldError struct {
	Group string
	Field string
}

// Error returns a textual representation of this MissingFieldError
func (e MissingFieldError) Error() string {
	return fmt.Sprintf("Field %s/%s does not exist", e.Group, e.Field)
}

// PersistError occurs when a Row sink fails to durably store a chunk
type PersistError struct {
	ChunkID string
	Cause   error
}

// Error returns a textual representation of this PersistError
func (e PersistError) Error() string {
	return fmt.Sprintf("unable to persist chunk %s: %v", e.ChunkID, e.Cause)
}

// Unwrap returns the underlying sink failure
func (e PersistError) Unwrap() error {
	return e.Cause
}

// ChunkFullError occurs when a Row is offered to a chunk buffer which has already reached its size
type ChunkFullError struct{ Size int }

// Error returns a textual representation of this ChunkFullError
func (e ChunkFullError) Error() string {
	return fmt.Sprintf("Chunk is full (%d rows) and must be flushed first", e.Size)
}
