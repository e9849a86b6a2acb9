// Package zio opens files through transparent compression, dispatched on
// the file extension: .zst (zstandard), .lz4, and .gz are recognized; any
// other name is read and written raw.
package zio

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

type reader struct {
	io.Reader
	close func() error
}

func (r *reader) Close() error { return r.close() }

type writer struct {
	io.Writer
	close func() error
}

func (w *writer) Close() error { return w.close() }

// OpenReader opens the file at path for reading, decompressing according to
// its extension.
func OpenReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &reader{Reader: dec, close: func() error {
			dec.Close()
			return f.Close()
		}}, nil
	case ".lz4":
		return &reader{Reader: lz4.NewReader(f), close: f.Close}, nil
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &reader{Reader: gz, close: func() error {
			if err := gz.Close(); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}}, nil
	default:
		return f, nil
	}
}

// Create creates or truncates the file at path for writing, compressing
// according to its extension. Close flushes the compressor before closing
// the file.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	closeBoth := func(c io.Closer) func() error {
		return func() error {
			if err := c.Close(); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &writer{Writer: enc, close: closeBoth(enc)}, nil
	case ".lz4":
		lw := lz4.NewWriter(f)
		return &writer{Writer: lw, close: closeBoth(lw)}, nil
	case ".gz":
		gz := gzip.NewWriter(f)
		return &writer{Writer: gz, close: closeBoth(gz)}, nil
	default:
		return f, nil
	}
}
