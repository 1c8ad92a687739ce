package dataset

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// Compression identifies the container format of an input file.
type Compression string

const (
	CompressionNone  Compression = "none"
	CompressionGzip  Compression = "gzip"
	CompressionZstd  Compression = "zstd"
	CompressionBzip2 Compression = "bzip2"
)

var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicZstd  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicBzip2 = []byte("BZh")
)

// DetectCompression sniffs the first bytes of r without consuming them.
func DetectCompression(r *bufio.Reader) Compression {
	head, _ := r.Peek(4)
	switch {
	case bytes.HasPrefix(head, magicGzip):
		return CompressionGzip
	case bytes.HasPrefix(head, magicZstd):
		return CompressionZstd
	case bytes.HasPrefix(head, magicBzip2):
		return CompressionBzip2
	default:
		return CompressionNone
	}
}

// Decompress wraps r in the decoder matching its magic bytes. The returned closer
// releases decoder resources; it does not close r.
func Decompress(r io.Reader) (io.Reader, Compression, func(), error) {
	br := bufio.NewReader(r)
	kind := DetectCompression(br)
	switch kind {
	case CompressionGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, kind, nil, errors.Wrap(err, "open gzip stream")
		}
		return zr, kind, func() { _ = zr.Close() }, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, kind, nil, errors.Wrap(err, "open zstd stream")
		}
		return zr, kind, zr.Close, nil
	case CompressionBzip2:
		return bzip2.NewReader(br), kind, func() {}, nil
	default:
		return br, kind, func() {}, nil
	}
}
