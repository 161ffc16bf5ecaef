package file

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// directory is a listed directory whose entries have not all been visited
type directory struct {
	path    string
	entries []os.FileInfo
}

// FileIterator walks a subtree depth-first, listing each directory only when the walk reaches it
type FileIterator struct {
	source  *DataSource
	stack   []*directory
	next    string
	hasNext bool
}

// HasNext returns true iff there is another file remaining
func (it *FileIterator) HasNext() bool {
	if it.hasNext {
		return true
	}
	for len(it.stack) > 0 {
		top := it.stack[len(it.stack)-1]
		if len(top.entries) == 0 {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		entry := top.entries[0]
		top.entries = top.entries[1:]
		path := filepath.Join(top.path, entry.Name())
		if entry.IsDir() {
			it.pushDir(path)
			continue
		}
		if entry.Mode().IsRegular() && it.source.matches(entry.Name()) {
			it.next = path
			it.hasNext = true
			return true
		}
	}
	return false
}

// Next returns the path of the next file. It must only be called after HasNext returns true.
func (it *FileIterator) Next() string {
	if !it.HasNext() {
		panic("FileIterator.Next called on an exhausted iterator")
	}
	it.hasNext = false
	return it.next
}

// pushDir lists a directory (sorted by name) and places it on top of the walk
func (it *FileIterator) pushDir(path string) {
	entries, err := afero.ReadDir(it.source.fs, path)
	if err != nil {
		it.source.readFailed(path, err)
		return
	}
	it.stack = append(it.stack, &directory{path: path, entries: entries})
}
