package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// Writer appends files to a compressed tar archive. The compression is
// chosen from the path suffix: .tar.xz or .tar.gz.
type Writer struct {
	tw         *tar.Writer
	compressor io.WriteCloser
	file       *os.File
	modTime    time.Time
	names      map[string]bool
}

// NewWriter creates the archive at path, creating parent directories.
func NewWriter(path string) (*Writer, error) {
	if !strings.HasSuffix(path, ".tar.xz") && !strings.HasSuffix(path, ".tar.gz") {
		return nil, fmt.Errorf("unsupported archive format: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive file: %w", err)
	}

	var compressor io.WriteCloser
	if strings.HasSuffix(path, ".tar.xz") {
		xzw, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz writer: %w", err)
		}
		compressor = xzw
	} else {
		compressor = gzip.NewWriter(f)
	}

	return &Writer{
		tw:         tar.NewWriter(compressor),
		compressor: compressor,
		file:       f,
		modTime:    time.Now(),
		names:      make(map[string]bool),
	}, nil
}

// Add writes one regular file. A name already in the archive is skipped so
// the first (original) content wins.
func (w *Writer) Add(name string, data []byte) error {
	name = filepath.ToSlash(name)
	if w.names[name] {
		return nil
	}
	header := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     0644,
		Size:     int64(len(data)),
		ModTime:  w.modTime,
	}
	if err := w.tw.WriteHeader(header); err != nil {
		return fmt.Errorf("write header %s: %w", name, err)
	}
	if _, err := w.tw.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	w.names[name] = true
	return nil
}

// Len returns the number of files added.
func (w *Writer) Len() int {
	return len(w.names)
}

// Close flushes the tar stream, the compressor and the file.
func (w *Writer) Close() error {
	var errs []error
	if err := w.tw.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := w.compressor.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := w.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
