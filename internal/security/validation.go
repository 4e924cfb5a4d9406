// Package security provides input validation and resource limits for svgtint.
package security

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// DefaultMaxBytes caps how much SVG text (after decompression) is read.
const DefaultMaxBytes int64 = 32 * 1024 * 1024

// ErrSizeLimit is returned once a LimitedReader is exhausted.
var ErrSizeLimit = errors.New("input size limit exceeded")

// ValidateInputPath validates a user supplied input path. "-" means stdin
// and is always accepted.
func ValidateInputPath(path string) error {
	if path == "" {
		return fmt.Errorf("empty input path")
	}
	if path == "-" {
		return nil
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("input path contains a NUL byte")
	}
	return nil
}

// ValidateOutputPath validates a path that fix output is written to.
// When baseDir is set the path must stay within it.
func ValidateOutputPath(outputPath, baseDir string) error {
	if err := ValidateInputPath(outputPath); err != nil {
		return err
	}
	if outputPath == "-" || baseDir == "" {
		return nil
	}

	absPath, err := filepath.Abs(filepath.Clean(outputPath))
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	absBase, err := filepath.Abs(filepath.Clean(baseDir))
	if err != nil {
		return fmt.Errorf("invalid base directory: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("output path must be within %s (attempted path traversal)", baseDir)
	}
	return nil
}

// LimitedReader wraps an io.Reader and limits the total bytes that can be read.
// Reading past the limit fails with ErrSizeLimit.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining <= 0 {
		// Allow a clean EOF exactly at the limit.
		var probe [1]byte
		if n, err := l.R.Read(probe[:]); n == 0 && errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, ErrSizeLimit
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}
