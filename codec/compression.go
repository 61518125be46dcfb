package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a compression format.
type Compression uint8

const (
	// None means the data is not compressed.
	None Compression = iota
	// Gzip is RFC 1952 gzip.
	Gzip
	// Zstd is a Zstandard frame.
	Zstd
	// LZ4 is an LZ4 frame.
	LZ4
)

// ErrUnknownCompression is returned for unsupported format names.
var ErrUnknownCompression = errors.New("codec: unknown compression")

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return "none"
	}
}

// Extension returns the file extension for c, including the dot.
func (c Compression) Extension() string {
	switch c {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ParseCompression parses a format name as printed by String.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return None, nil
	case "gzip", "gz":
		return Gzip, nil
	case "zstd", "zst":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
}

// FromExtension returns the compression implied by the extension of path.
func FromExtension(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return Gzip
	case ".zst":
		return Zstd
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

// TrimExtension removes a compression extension from path.
func TrimExtension(path string) string {
	if c := FromExtension(path); c != None {
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path
}

// Detect inspects the leading magic bytes of b.
func Detect(b []byte) Compression {
	switch {
	case bytes.HasPrefix(b, zstdMagic):
		return Zstd
	case bytes.HasPrefix(b, lz4Magic):
		return LZ4
	case bytes.HasPrefix(b, gzipMagic):
		return Gzip
	default:
		return None
	}
}

var zstdDecoderPool sync.Pool

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

// Decompress detects the format of b and returns the decoded bytes.
// Uncompressed input is returned as is.
func Decompress(b []byte) ([]byte, error) {
	switch Detect(b) {
	case Zstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)
		return dec.DecodeAll(b, nil)
	case None:
		return b, nil
	default:
		r, err := NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	}
}

// NewReader returns a reader that transparently decompresses r.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	switch Detect(head) {
	case Gzip:
		return gzip.NewReader(br)
	case Zstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(br)), nil
	default:
		return io.NopCloser(br), nil
	}
}

// Compress encodes b with c.
func Compress(c Compression, b []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser

	switch c {
	case None:
		return b, nil
	case Gzip:
		w = gzip.NewWriter(&buf)
	case Zstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(b, nil), nil
	case LZ4:
		w = lz4.NewWriter(&buf)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}

	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
