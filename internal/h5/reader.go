package h5

import (
	"fmt"
	"sync"

	errors "github.com/go-sif/sif-msd/errors"
	"github.com/go-sif/sif-msd/extract"
	"gonum.org/v1/hdf5"
)

// libhdf5 is not assumed to be built thread-safe, so at most one song is open per process
var libraryLock sync.Mutex

// Reader opens song files read-only
type Reader struct{}

// NewReader returns a Reader
func NewReader() *Reader {
	return &Reader{}
}

// Open opens the song file at path. Open blocks while another song is open, until it is closed.
func (r *Reader) Open(path string) (extract.Song, error) {
	libraryLock.Lock()
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		libraryLock.Unlock()
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	return &song{file: f, tables: make(map[string]*record)}, nil
}

// song is an open song file. Decoded table records are cached per group.
type song struct {
	file   *hdf5.File
	tables map[string]*record
	closed bool
}

// Column returns a member of the first record of the <group>/songs table
func (s *song) Column(group, name string) (interface{}, error) {
	rec, ok := s.tables[group]
	if !ok {
		var err error
		rec, err = s.readFirstRecord(group)
		if err != nil {
			return nil, err
		}
		s.tables[group] = rec
	}
	m, ok := rec.members[name]
	if !ok {
		return nil, errors.MissingFieldError{Group: group, Field: name}
	}
	return m.decode(rec.data)
}

// Array returns every element of the <group>/<name> dataset
func (s *song) Array(group, name string) ([]interface{}, error) {
	ds, err := s.file.OpenDataset(group + "/" + name)
	if err != nil {
		return nil, errors.MissingFieldError{Group: group, Field: name}
	}
	defer ds.Close()
	dtype, err := ds.Datatype()
	if err != nil {
		return nil, err
	}
	defer dtype.Close()
	elem := newMember(dtype, 0)
	if elem.unsupported != nil {
		return nil, fmt.Errorf("%s/%s: %w", group, name, elem.unsupported)
	}
	space := ds.Space()
	n := space.SimpleExtentNPoints()
	space.Close()
	if n == 0 {
		return []interface{}{}, nil
	}
	buf := make([]byte, n*elem.size)
	if err := ds.Read(&buf); err != nil {
		return nil, fmt.Errorf("unable to read %s/%s: %w", group, name, err)
	}
	values := make([]interface{}, n)
	for i := 0; i < n; i++ {
		v, err := elem.decode(buf[i*elem.size : (i+1)*elem.size])
		if err != nil {
			return nil, fmt.Errorf("%s/%s[%d]: %w", group, name, i, err)
		}
		values[i] = v
	}
	return values, nil
}

// Close closes the underlying file
func (s *song) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	defer libraryLock.Unlock()
	return s.file.Close()
}

// readFirstRecord loads the raw bytes of the first record of <group>/songs, along with its member layout
func (s *song) readFirstRecord(group string) (*record, error) {
	ds, err := s.file.OpenDataset(group + "/" + extract.SongsTable)
	if err != nil {
		return nil, errors.MissingFieldError{Group: group, Field: extract.SongsTable}
	}
	defer ds.Close()
	dtype, err := ds.Datatype()
	if err != nil {
		return nil, err
	}
	defer dtype.Close()
	if dtype.Class() != hdf5.T_COMPOUND {
		return nil, fmt.Errorf("%s/%s is not a table", group, extract.SongsTable)
	}
	members, err := compoundLayout(&hdf5.CompoundType{Datatype: *dtype})
	if err != nil {
		return nil, err
	}
	space := ds.Space()
	n := space.SimpleExtentNPoints()
	space.Close()
	if n == 0 {
		return nil, fmt.Errorf("%s/%s contains no songs", group, extract.SongsTable)
	}
	size := int(dtype.Size())
	buf := make([]byte, n*size)
	if err := ds.Read(&buf); err != nil {
		return nil, fmt.Errorf("unable to read %s/%s: %w", group, extract.SongsTable, err)
	}
	return &record{data: buf[:size], members: members}, nil
}

func compoundLayout(ctype *hdf5.CompoundType) (map[string]member, error) {
	members := make(map[string]member, ctype.NMembers())
	for i := 0; i < ctype.NMembers(); i++ {
		mtype, err := ctype.MemberType(i)
		if err != nil {
			return nil, err
		}
		members[ctype.MemberName(i)] = newMember(mtype, ctype.MemberOffset(i))
		mtype.Close()
	}
	return members, nil
}
