package vault

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"goodgood/internal/fs"
	"goodgood/internal/gg"
)

// FileSystemVault is a filesystem-based implementation of the Vault interface.
// It stores archives as files in a directory structure:
//
//	<root>/
//	  archives/
//	    <id>     (one encrypted archive per backup)
type FileSystemVault struct {
	name       string
	root       string
	archiveDir string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	archiveDir := filepath.Join(root, "archives")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &FileSystemVault{
		name:       name,
		root:       root,
		archiveDir: archiveDir,
	}, nil
}

// Put stores an archive under id with a durable write. The declared size is
// verified before the file becomes visible.
func (v *FileSystemVault) Put(id string, r io.Reader, size int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	destPath := filepath.Join(v.archiveDir, id)

	guard := &sizeGuard{r: &countingReader{r: r}, size: size}
	if _, err := fs.WriteFileAtomic(destPath, guard, 0644); err != nil {
		return fmt.Errorf("failed to store archive %s: %w", id, err)
	}
	return nil
}

// sizeGuard fails the read when the stream is longer or shorter than size,
// which aborts the durable write before the target is replaced.
type sizeGuard struct {
	r    *countingReader
	size int64
}

func (g *sizeGuard) Read(p []byte) (int, error) {
	n, err := g.r.Read(p)
	if g.r.n > g.size {
		return n, fmt.Errorf("size mismatch: expected %d bytes, got more", g.size)
	}
	if errors.Is(err, io.EOF) && g.r.n < g.size {
		return n, fmt.Errorf("size mismatch: expected %d bytes, got %d", g.size, g.r.n)
	}
	return n, err
}

// Get writes the archive stored under id to w.
func (v *FileSystemVault) Get(id string, w io.Writer) error {
	if err := validateID(id); err != nil {
		return err
	}
	f, err := os.Open(filepath.Join(v.archiveDir, id))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("archive not found: %s", id)
		}
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	return nil
}

// List returns the stored IDs in ascending order. Leftover temp files from
// interrupted writes are not listed.
func (v *FileSystemVault) List() ([]string, error) {
	entries, err := os.ReadDir(v.archiveDir)
	if err != nil {
		return nil, fmt.Errorf("listing archives: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if !e.Type().IsRegular() || validateID(e.Name()) != nil {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// ValidateSetup verifies that the vault directories are accessible.
func (v *FileSystemVault) ValidateSetup() error {
	info, err := os.Stat(v.root)
	if err != nil {
		return fmt.Errorf("vault root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault root is not a directory: %s", v.root)
	}

	info, err = os.Stat(v.archiveDir)
	if err != nil {
		return fmt.Errorf("vault directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault path is not a directory: %s", v.archiveDir)
	}
	return nil
}

// Compile-time check that FileSystemVault implements gg.Vault interface
var _ gg.Vault = (*FileSystemVault)(nil)
