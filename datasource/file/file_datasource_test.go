package file

import (
	"fmt"
	"path/filepath"
	"testing"

	msd "github.com/go-sif/sif-msd"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func drain(it msd.FileIterator) []string {
	res := []string{}
	for it.HasNext() {
		res = append(res, it.Next())
	}
	return res
}

func createTestFs(t *testing.T, paths ...string) afero.Fs {
	fs := afero.NewMemMapFs()
	for _, p := range paths {
		require.Nil(t, fs.MkdirAll(filepath.Dir(p), 0755))
		require.Nil(t, afero.WriteFile(fs, p, []byte("song"), 0644))
	}
	return fs
}

func TestEnumerateNestedSubtree(t *testing.T) {
	fs := createTestFs(t,
		"data/A/B/C/TRABCAA.h5",
		"data/A/A/Z/TRAAZZZ.h5",
		"data/A/A/A/TRAAAAB.h5",
		"data/A/A/A/TRAAAAA.h5",
		"data/B/A/A/TRBAAAA.h5",
	)
	ds := CreateDataSource(fs, "data", "")
	require.Equal(t, []string{
		filepath.Join("data", "A", "A", "A", "TRAAAAA.h5"),
		filepath.Join("data", "A", "A", "A", "TRAAAAB.h5"),
		filepath.Join("data", "A", "A", "Z", "TRAAZZZ.h5"),
		filepath.Join("data", "A", "B", "C", "TRABCAA.h5"),
	}, drain(ds.Enumerate("A")))
	require.Equal(t, []string{filepath.Join("data", "B", "A", "A", "TRBAAAA.h5")}, drain(ds.Enumerate("B")))
}

func TestEnumerateMissingKeyIsEmpty(t *testing.T) {
	fs := createTestFs(t, "data/A/x.h5")
	ds := CreateDataSource(fs, "data", "")
	var readErrors []string
	ds.OnReadError(func(path string, err error) {
		readErrors = append(readErrors, path)
	})
	it := ds.Enumerate("Q")
	require.False(t, it.HasNext())
	require.Empty(t, readErrors)
}

func TestEnumerateEmptyDirectories(t *testing.T) {
	fs := createTestFs(t, "data/C/A/A/only.h5")
	require.Nil(t, fs.MkdirAll("data/C/A/B/empty", 0755))
	require.Nil(t, fs.MkdirAll("data/D", 0755))
	ds := CreateDataSource(fs, "data", "")
	require.Equal(t, []string{filepath.Join("data", "C", "A", "A", "only.h5")}, drain(ds.Enumerate("C")))
	require.Empty(t, drain(ds.Enumerate("D")))
}

func TestEnumeratePattern(t *testing.T) {
	fs := createTestFs(t, "data/E/a.h5", "data/E/notes.txt", "data/E/sub/b.h5")
	ds := CreateDataSource(fs, "data", "*.h5")
	require.Equal(t, []string{
		filepath.Join("data", "E", "a.h5"),
		filepath.Join("data", "E", "sub", "b.h5"),
	}, drain(ds.Enumerate("E")))
}

func TestEnumerateIsStable(t *testing.T) {
	paths := []string{}
	for i := 20; i > 0; i-- {
		paths = append(paths, fmt.Sprintf("data/F/%02d/song%02d.h5", i%3, i))
	}
	fs := createTestFs(t, paths...)
	ds := CreateDataSource(fs, "data", "")
	first := drain(ds.Enumerate("F"))
	require.Len(t, first, 20)
	require.Equal(t, first, drain(ds.Enumerate("F")))
	for i := 1; i < len(first); i++ {
		require.Less(t, first[i-1], first[i])
	}
}

func TestEnumerateIsDepthFirst(t *testing.T) {
	fs := createTestFs(t, "data/A/a.b/x.h5", "data/A/a/y.h5", "data/A/a-z.h5")
	ds := CreateDataSource(fs, "data", "")
	require.Equal(t, []string{
		filepath.Join("data", "A", "a", "y.h5"),
		filepath.Join("data", "A", "a-z.h5"),
		filepath.Join("data", "A", "a.b", "x.h5"),
	}, drain(ds.Enumerate("A")))
}

func TestEnumerateIsLazy(t *testing.T) {
	fs := createTestFs(t, "data/G/1/a.h5", "data/G/2/b.h5")
	ds := CreateDataSource(fs, "data", "")
	it := ds.Enumerate("G")
	require.True(t, it.HasNext())
	require.Equal(t, filepath.Join("data", "G", "1", "a.h5"), it.Next())
	// directories not yet reached can still change underneath the iterator
	require.Nil(t, afero.WriteFile(fs, "data/G/2/c.h5", []byte("song"), 0644))
	require.Equal(t, []string{
		filepath.Join("data", "G", "2", "b.h5"),
		filepath.Join("data", "G", "2", "c.h5"),
	}, drain(it))
}

func TestEnumerateUnreadableDirectory(t *testing.T) {
	fs := createTestFs(t, "data/H/ok/a.h5")
	ds := CreateDataSource(&failingFs{Fs: fs, failOn: filepath.Join("data", "H", "bad")}, "data", "")
	require.Nil(t, fs.MkdirAll("data/H/bad", 0755))
	require.Nil(t, afero.WriteFile(fs, "data/H/bad/lost.h5", []byte("song"), 0644))
	var readErrors []string
	ds.OnReadError(func(path string, err error) {
		readErrors = append(readErrors, path)
	})
	require.Equal(t, []string{filepath.Join("data", "H", "ok", "a.h5")}, drain(ds.Enumerate("H")))
	require.Equal(t, []string{filepath.Join("data", "H", "bad")}, readErrors)
}

// failingFs refuses to open one particular directory
type failingFs struct {
	afero.Fs
	failOn string
}

func (f *failingFs) Open(name string) (afero.File, error) {
	if name == f.failOn {
		return nil, fmt.Errorf("permission denied: %s", name)
	}
	return f.Fs.Open(name)
}
