package fileio

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// Writer is a struct for writing files to the filesystem
type Writer struct {
	// rootDir is the root directory for the writer useful for testing
	rootDir string
}

// New creates a new writer
func NewWriter() *Writer {
	return &Writer{}
}

// SetRootdir sets the root directory for the writer, useful for testing
func (r *Writer) SetRootdir(path string) {
	r.rootDir = path
}

// PathFor returns the full path for the provided file, useful for using functions
// and libraries that don't work with the fileio.Writer
func (r *Writer) PathFor(filePath string) string {
	return path.Join(r.rootDir, filePath)
}

// WriteFile writes the file at the provided path
func (r *Writer) WriteFile(filePath string, data []byte) error {
	return os.WriteFile(r.PathFor(filePath), data, 0644)
}

// WriteFileAtomic writes the file through a temp file in the same
// directory followed by a rename, so a crash mid-write cannot leave a
// half-written file behind.
func (r *Writer) WriteFileAtomic(filePath string, data []byte) error {
	full := r.PathFor(filePath)
	tmp, err := os.CreateTemp(filepath.Dir(full), filepath.Base(full)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// CopyFileIfAbsent copies src to dst unless dst already exists.
// Returns true when a copy actually happened.
func (r *Writer) CopyFileIfAbsent(src, dst string) (bool, error) {
	dst = r.PathFor(dst)
	if _, err := os.Stat(dst); err == nil {
		return false, nil
	}

	in, err := os.Open(src)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return false, err
	}

	out, err := os.Create(dst)
	if err != nil {
		return false, fmt.Errorf("creating %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		os.Remove(dst)
		return false, fmt.Errorf("copying %s: %w", src, err)
	}
	return true, nil
}
