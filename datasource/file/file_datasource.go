package file

import (
	"os"
	"path/filepath"

	msd "github.com/go-sif/sif-msd"
	"github.com/spf13/afero"
)

// DataSource enumerates the files found beneath <root>/<key> on a filesystem
type DataSource struct {
	fs           afero.Fs
	root         string
	pattern      string
	readListener func(path string, err error)
}

// CreateDataSource is a factory for DataSources. If pattern is non-empty, only files whose
// base name matches it (per filepath.Match) are enumerated.
func CreateDataSource(fs afero.Fs, root string, pattern string) *DataSource {
	return &DataSource{fs: fs, root: root, pattern: pattern}
}

// OnReadError registers a listener which fires whenever a directory within a subtree
// cannot be read. Unreadable directories contribute no files; enumeration continues.
func (ds *DataSource) OnReadError(listener func(path string, err error)) {
	ds.readListener = listener
}

// Enumerate returns a lazy iterator over every file beneath the key's subtree. The subtree is
// walked depth-first with the entries of each directory sorted by name, so a directory's
// files are listed before those of a sibling which sorts after it. A missing subtree
// produces an empty iterator.
func (ds *DataSource) Enumerate(key msd.PartitionKey) msd.FileIterator {
	keyRoot := filepath.Join(ds.root, string(key))
	it := &FileIterator{source: ds}
	info, err := ds.fs.Stat(keyRoot)
	if err != nil {
		if !os.IsNotExist(err) {
			ds.readFailed(keyRoot, err)
		}
		return it
	}
	if !info.IsDir() {
		if ds.matches(info.Name()) {
			it.next = keyRoot
			it.hasNext = true
		}
		return it
	}
	it.pushDir(keyRoot)
	return it
}

func (ds *DataSource) matches(name string) bool {
	if len(ds.pattern) == 0 {
		return true
	}
	ok, err := filepath.Match(ds.pattern, name)
	return err == nil && ok
}

func (ds *DataSource) readFailed(path string, err error) {
	if ds.readListener != nil {
		ds.readListener(path, err)
	}
}
