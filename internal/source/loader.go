// Package source loads SVG text from files or stdin and writes fixed text
// back in the input's compression format.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/jmylchreest/svgtint/internal/compression"
	"github.com/jmylchreest/svgtint/internal/security"
)

// Stdin is the path that selects standard input or output.
const Stdin = "-"

// ErrEmptyInput is returned for input with no content.
var ErrEmptyInput = errors.New("input is empty")

// Document is loaded SVG text and where it came from.
type Document struct {
	Path        string
	Text        string
	Compression compression.Format
}

// Loader reads documents from a filesystem.
type Loader struct {
	fs       afero.Fs
	stdin    io.Reader
	stdout   io.Writer
	maxBytes int64
}

// NewLoader creates a loader over fs. A nil fs means the OS filesystem.
func NewLoader(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Loader{
		fs:       fs,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		maxBytes: security.DefaultMaxBytes,
	}
}

// WithStdio replaces the streams used for the "-" path.
func (l *Loader) WithStdio(in io.Reader, out io.Writer) *Loader {
	l.stdin, l.stdout = in, out
	return l
}

// WithMaxBytes sets the size limit for decoded input.
func (l *Loader) WithMaxBytes(n int64) *Loader {
	if n > 0 {
		l.maxBytes = n
	}
	return l
}

// Load reads path ("-" for stdin), decompressing when needed.
func (l *Loader) Load(path string) (*Document, error) {
	if err := security.ValidateInputPath(path); err != nil {
		return nil, err
	}

	raw, err := l.read(path)
	if err != nil {
		return nil, err
	}

	format := compression.Detect(path, raw)
	data, err := compression.Decompress(raw, format, l.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyInput)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s: input is not valid UTF-8", path)
	}

	return &Document{Path: path, Text: string(data), Compression: format}, nil
}

func (l *Loader) read(path string) ([]byte, error) {
	var r io.Reader
	if path == Stdin {
		r = l.stdin
	} else {
		info, err := l.fs.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("input file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to stat input file: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("path is a directory, not a file: %s", path)
		}

		f, err := l.fs.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(security.NewLimitedReader(r, l.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Save writes text to path ("-" for stdout) in the given format.
func (l *Loader) Save(path, text string, format compression.Format) error {
	if err := security.ValidateInputPath(path); err != nil {
		return err
	}

	data, err := compression.Compress([]byte(text), format)
	if err != nil {
		return err
	}

	if path == Stdin {
		_, err := l.stdout.Write(data)
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := l.fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := afero.WriteFile(l.fs, path, data, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
