// Package fs holds the filesystem primitives shared by the store, the archive
// and the file server: durable writes, path containment and ignore patterns.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes everything read from r to path using a durable write:
// the data goes to a temporary file in the same directory, is synced, and is
// then renamed over path. A reader of path sees either the old content or the
// complete new content. The temporary file is removed on failure.
// Returns the number of bytes written.
func WriteFileAtomic(path string, r io.Reader, perm os.FileMode) (int64, error) {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return 0, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return 0, fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return 0, fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	success = true

	// Persist the rename itself. Not every platform supports syncing a
	// directory, so a failure here does not undo the write.
	if d, err := os.Open(dir); err == nil {
		d.Sync()
		d.Close()
	}

	return written, nil
}
