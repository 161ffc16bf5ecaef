package sink

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	msd "github.com/go-sif/sif-msd"
	"github.com/go-sif/sif-msd/format/dsv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// StagedChunk describes a chunk file which has been fully written to the staging directory
type StagedChunk struct {
	Path     string // Path of the chunk file, relative to the staging filesystem
	Checksum uint64 // xxhash64 of the file contents as stored
	Rows     int
	Bytes    int64
}

// LocalSink writes each chunk to {dir}/{chunk_id}.csv[.ext]. The file appears atomically.
type LocalSink struct {
	fs    afero.Fs
	dir   string
	codec Codec
	dsv   *dsv.Codec
	log   logrus.FieldLogger
}

// NewLocalSink creates a LocalSink which stages chunk files in dir on fs
func NewLocalSink(fs afero.Fs, dir string, compression Compression, log logrus.FieldLogger) (*LocalSink, error) {
	codec, err := CodecFor(compression)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LocalSink{
		fs:    fs,
		dir:   dir,
		codec: codec,
		dsv:   dsv.CreateCodec(nil),
		log:   log,
	}, nil
}

// PathFor returns the staging path of a chunk
func (s *LocalSink) PathFor(id msd.ChunkID) string {
	return filepath.Join(s.dir, id.String()+".csv"+s.codec.Extension())
}

// Persist stages rows and keeps the staged file as the final artifact
func (s *LocalSink) Persist(ctx context.Context, id msd.ChunkID, rows []msd.Row) error {
	staged, err := s.Stage(ctx, id, rows)
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"chunk":    id.String(),
		"xxhash64": fmt.Sprintf("%016x", staged.Checksum),
		"bytes":    staged.Bytes,
	}).Infof("csv saved to: %s", staged.Path)
	return nil
}

// Stage writes rows to a temporary file and renames it onto the chunk's staging path once it
// has been closed successfully. On failure the temporary file is removed.
func (s *LocalSink) Stage(ctx context.Context, id msd.ChunkID, rows []msd.Row) (*StagedChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return nil, err
	}
	path := s.PathFor(id)
	tmpPath := path + ".tmp"
	f, err := s.fs.Create(tmpPath)
	if err != nil {
		return nil, err
	}
	digest := xxhash.New()
	counter := &countingWriter{}
	written, err := s.write(io.MultiWriter(f, digest, counter), rows)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = s.fs.Rename(tmpPath, path)
	}
	if err != nil {
		if rmErr := s.fs.Remove(tmpPath); rmErr != nil {
			s.log.WithError(rmErr).Warnf("Unable to remove temporary file %s", tmpPath)
		}
		return nil, err
	}
	return &StagedChunk{
		Path:     path,
		Checksum: digest.Sum64(),
		Rows:     written,
		Bytes:    counter.n,
	}, nil
}

func (s *LocalSink) write(w io.Writer, rows []msd.Row) (int, error) {
	cw, err := s.codec.Compress(w)
	if err != nil {
		return 0, err
	}
	if err = s.dsv.Write(cw, rows); err != nil {
		cw.Close()
		return 0, err
	}
	if err = cw.Close(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ReadChunk reads back the Rows of a staged chunk file
func (s *LocalSink) ReadChunk(path string) ([]msd.Row, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := s.codec.Decompress(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return s.dsv.Read(r)
}

type countingWriter struct{ n int64 }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
