package fileio

import (
	"fmt"
	"os"
	"path"
)

// Reader is a struct for reading files from the filesystem
type Reader struct {
	// rootDir is the root directory for the reader useful for testing
	rootDir string
}

// New creates a new reader
func NewReader() *Reader {
	return &Reader{}
}

// SetRootdir sets the root directory for the reader, useful for testing
func (r *Reader) SetRootdir(path string) {
	r.rootDir = path
}

// PathFor returns the full path for the provided file, useful for using functions
// and libraries that don't work with the fileio.Reader
func (r *Reader) PathFor(filePath string) string {
	return path.Join(r.rootDir, filePath)
}

// ReadFile reads the file at the provided path
func (r *Reader) ReadFile(filePath string) ([]byte, error) {
	return os.ReadFile(r.PathFor(filePath))
}

// CheckPathExists checks if the provided path exists
func (r *Reader) CheckPathExists(filePath string) error {
	if _, err := os.Stat(r.PathFor(filePath)); err != nil {
		return fmt.Errorf("failed to access path %s: %w", filePath, err)
	}
	return nil
}
