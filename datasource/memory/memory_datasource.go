package memory

import (
	msd "github.com/go-sif/sif-msd"
)

// DataSource is a fixed, in-memory listing of file paths per PartitionKey
type DataSource struct {
	files map[msd.PartitionKey][]string
}

// CreateDataSource is a factory for DataSources. Paths are enumerated in the order given.
func CreateDataSource(files map[msd.PartitionKey][]string) *DataSource {
	return &DataSource{files: files}
}

// Enumerate returns an iterator over the paths listed for key
func (ds *DataSource) Enumerate(key msd.PartitionKey) msd.FileIterator {
	return &FileIterator{paths: ds.files[key]}
}

// FileIterator iterates over a slice of paths
type FileIterator struct {
	paths []string
}

// HasNext returns true iff there is another path remaining
func (it *FileIterator) HasNext() bool {
	return len(it.paths) > 0
}

// Next returns the next path
func (it *FileIterator) Next() string {
	result := it.paths[0]
	it.paths = it.paths[1:]
	return result
}
