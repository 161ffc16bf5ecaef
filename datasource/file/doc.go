// Package file provides a FileEnumerator which lists song files from a directory tree laid
// out as <root>/<partition key>/..., with any depth of subdirectories below each key.
// Directories are read lazily, one at a time, as the iterator advances.
package file
