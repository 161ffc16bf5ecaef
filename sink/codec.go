package sink

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Compression names the codec applied to staged chunk files
type Compression = string

const (
	// None stores plain CSV
	None Compression = "none"
	// LZ4 compresses chunk files with lz4 framing
	LZ4 Compression = "lz4"
	// Zstd compresses chunk files with zstandard
	Zstd Compression = "zstd"
)

// Codec wraps chunk file streams with a compression algorithm
type Codec interface {
	Extension() string                            // Extension returns the suffix appended to ".csv", if any
	Compress(w io.Writer) (io.WriteCloser, error)  // Compress wraps w. Closing the result does not close w.
	Decompress(r io.Reader) (io.ReadCloser, error) // Decompress wraps r. Closing the result does not close r.
}

// CodecFor returns the Codec for a Compression name
func CodecFor(c Compression) (Codec, error) {
	switch c {
	case None, "":
		return noneCodec{}, nil
	case LZ4:
		return lz4Codec{}, nil
	case Zstd:
		return zstdCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown compression %q, expected one of %s, %s, %s", c, None, LZ4, Zstd)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type noneCodec struct{}

func (noneCodec) Extension() string { return "" }

func (noneCodec) Compress(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (noneCodec) Decompress(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

type lz4Codec struct{}

func (lz4Codec) Extension() string { return ".lz4" }

func (lz4Codec) Compress(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

func (lz4Codec) Decompress(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

type zstdCodec struct{}

func (zstdCodec) Extension() string { return ".zst" }

func (zstdCodec) Compress(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func (zstdCodec) Decompress(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}
