// Package archive reads and writes the compressed tar archives used to back
// up documentation units before they are overwritten. It supports tar.gz and
// tar.xz.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/docfixer/internal/validation"
	"github.com/ulikunitz/xz"
)

// open returns a tar reader over the decompressed archive and a function
// that releases it.
func open(path string) (*tar.Reader, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open archive: %w", err)
	}
	var r io.Reader
	release := func() { f.Close() }
	switch {
	case strings.HasSuffix(path, ".tar.xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("xz reader: %w", err)
		}
		r = xzr
	case strings.HasSuffix(path, ".tar.gz"):
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("gzip reader: %w", err)
		}
		r = gzr
		release = func() {
			gzr.Close()
			f.Close()
		}
	default:
		f.Close()
		return nil, nil, fmt.Errorf("unsupported archive format: %s", path)
	}
	return tar.NewReader(r), release, nil
}

// each calls fn for every regular file in the archive, in archive order.
func each(path string, fn func(name string, data []byte) error) error {
	tr, release, err := open(path)
	if err != nil {
		return err
	}
	defer release()
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		if hdr.Typeflag == tar.TypeDir {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return fmt.Errorf("read %s: %w", hdr.Name, err)
		}
		if err := fn(hdr.Name, data); err != nil {
			return err
		}
	}
}

// ReadFile returns the backed-up bytes of one unit.
func ReadFile(archivePath, name string) ([]byte, error) {
	var content []byte
	found := false
	err := each(archivePath, func(n string, data []byte) error {
		if n == name && !found {
			content, found = data, true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	return content, nil
}

// List returns the names of every unit in the archive.
func List(archivePath string) ([]string, error) {
	var names []string
	err := each(archivePath, func(name string, _ []byte) error {
		names = append(names, name)
		return nil
	})
	return names, err
}

// Restore writes every unit in the archive back under dir, the directory
// that holds the en locale. Entry names that would escape dir are rejected.
// It returns the number of units restored.
func Restore(archivePath, dir string) (int, error) {
	restored := 0
	err := each(archivePath, func(name string, data []byte) error {
		rel, err := validation.SanitizePath(dir, filepath.FromSlash(name))
		if err != nil {
			return fmt.Errorf("restore %s: %w", name, err)
		}
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(full, data, 0644); err != nil {
			return err
		}
		restored++
		return nil
	})
	return restored, err
}
