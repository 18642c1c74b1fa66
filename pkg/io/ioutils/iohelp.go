// Package ioutils opens and creates data files, transparently handling
// gzip and zstd compression and stdin/stdout ("-").
package ioutils

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// OpenMaybeCompressed opens a file path or stdin ("-") for reading. gzip and
// zstd input is detected by extension or magic bytes and decompressed.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	var src io.Reader
	closeSrc := func() error { return nil }
	if path == "-" || path == "" {
		src = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src, closeSrc = f, f.Close
	}
	br := bufio.NewReader(src)
	head, _ := br.Peek(4)
	switch {
	case strings.HasSuffix(path, ".gz") || bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			_ = closeSrc()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return readCloser{Reader: zr, closeFn: func() error { _ = zr.Close(); return closeSrc() }}, nil
	case strings.HasSuffix(path, ".zst") || bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			_ = closeSrc()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return readCloser{Reader: zr, closeFn: func() error { zr.Close(); return closeSrc() }}, nil
	}
	return readCloser{Reader: br, closeFn: closeSrc}, nil
}

// CreateMaybeCompressed creates a file, or uses stdout for "-". Paths ending
// in .gz or .zst are compressed accordingly.
func CreateMaybeCompressed(path string) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		return writeCloser{Writer: bufio.NewWriter(os.Stdout)}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(path) {
	case ".gz":
		zw := gzip.NewWriter(f)
		return writeCloser{Writer: zw, closeFn: func() error { _ = zw.Close(); return f.Close() }}, nil
	case ".zst":
		zw, err := zstd.NewWriter(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return writeCloser{Writer: zw, closeFn: func() error { _ = zw.Close(); return f.Close() }}, nil
	}
	return writeCloser{Writer: bufio.NewWriter(f), closeFn: f.Close}, nil
}

// Format names the data format of path from its extension, ignoring a
// compression suffix: "csv", "tsv", "jsonl" or "parquet".
func Format(path string) (string, error) {
	p := strings.TrimSuffix(strings.TrimSuffix(strings.ToLower(path), ".gz"), ".zst")
	switch ext := filepath.Ext(p); ext {
	case ".csv", ".tsv", ".parquet", ".jsonl":
		return ext[1:], nil
	case ".ndjson", ".json":
		return "jsonl", nil
	}
	return "", fmt.Errorf("cannot tell the format of %s", path)
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error { return r.closeFn() }

type writeCloser struct {
	io.Writer
	closeFn func() error
}

func (w writeCloser) Close() error {
	if bw, ok := w.Writer.(*bufio.Writer); ok {
		if err := bw.Flush(); err != nil {
			return err
		}
	}
	if w.closeFn != nil {
		return w.closeFn()
	}
	return nil
}
