// Package compression detects and decodes compressed SVG input (.svgz, .gz,
// .xz, .bz2) and re-encodes fixed output in the same format.
package compression

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/svgtint/internal/security"
)

// Format is a single-stream compression format.
type Format int

const (
	None Format = iota
	Gzip
	Xz
	Bzip2
)

// ErrUnsupported is returned when a format cannot be written.
var ErrUnsupported = errors.New("unsupported compression format")

// String returns the format name.
func (f Format) String() string {
	switch f {
	case Gzip:
		return "gzip"
	case Xz:
		return "xz"
	case Bzip2:
		return "bzip2"
	default:
		return "none"
	}
}

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	xzMagic    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	bzip2Magic = []byte("BZh")
)

// Detect picks the format from the file extension, falling back to the
// leading magic bytes (for stdin and misnamed files).
func Detect(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".svgz", ".gz":
		return Gzip
	case ".xz":
		return Xz
	case ".bz2":
		return Bzip2
	}

	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return Gzip
	case bytes.HasPrefix(data, xzMagic):
		return Xz
	case bytes.HasPrefix(data, bzip2Magic):
		return Bzip2
	}
	return None
}

// Decompress decodes data, reading at most maxBytes of output.
func Decompress(data []byte, format Format, maxBytes int64) ([]byte, error) {
	var r io.Reader
	switch format {
	case None:
		return data, nil
	case Gzip:
		gzr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzr.Close()
		r = gzr
	case Xz:
		xzr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		r = xzr
	case Bzip2:
		r = bzip2.NewReader(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupported, format)
	}

	out, err := io.ReadAll(security.NewLimitedReader(r, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s input: %w", format, err)
	}
	return out, nil
}

// Compress encodes data. Bzip2 has no encoder and returns ErrUnsupported.
func Compress(data []byte, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case None:
		return data, nil
	case Gzip:
		gzw := gzip.NewWriter(&buf)
		if _, err := gzw.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write gzip stream: %w", err)
		}
		if err := gzw.Close(); err != nil {
			return nil, fmt.Errorf("failed to close gzip stream: %w", err)
		}
	case Xz:
		xzw, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		if _, err := xzw.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write xz stream: %w", err)
		}
		if err := xzw.Close(); err != nil {
			return nil, fmt.Errorf("failed to close xz stream: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, format)
	}
	return buf.Bytes(), nil
}
