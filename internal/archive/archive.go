// Package archive packs a data tree into a gzip-compressed tarball and
// unpacks it again under the same containment rule the file server applies.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"goodgood/internal/fs"
)

// Write streams a tarball of the regular files under root to w.
// Entry names are slash-separated paths relative to root. Paths matched by
// ignore are left out; a matched directory is skipped entirely. Symlinks and
// other special files are not archived. Returns the number of files written.
func Write(root string, w io.Writer, ignore *fs.IgnoreMatcher) (int, error) {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	count := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("calculating relative path: %w", err)
		}
		if rel == "." {
			return nil
		}
		if ignore != nil && ignore.Match(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := addFile(tw, path, filepath.ToSlash(rel)); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("archiving %s: %w", root, err)
	}

	if err := tw.Close(); err != nil {
		return 0, fmt.Errorf("closing tar stream: %w", err)
	}
	if err := gz.Close(); err != nil {
		return 0, fmt.Errorf("closing gzip stream: %w", err)
	}
	return count, nil
}

func addFile(tw *tar.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", name, err)
	}

	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     int64(info.Mode().Perm()),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header for %s: %w", name, err)
	}
	// Copy exactly Size bytes; a file growing underneath us must not
	// corrupt the stream.
	if _, err := io.CopyN(tw, f, info.Size()); err != nil {
		return fmt.Errorf("copying %s: %w", name, err)
	}
	return nil
}

// Extract unpacks a tarball produced by Write into dest, creating
// directories as needed. Every file is committed with fs.WriteFileAtomic so
// a tree being served is never observed half-written. Entries that would
// land outside dest, and entries that are not regular files or directories,
// abort the extraction. Returns the number of files written.
func Extract(r io.Reader, dest string) (int, error) {
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return 0, fmt.Errorf("resolving destination: %w", err)
	}
	if err := os.MkdirAll(absDest, 0755); err != nil {
		return 0, fmt.Errorf("creating destination: %w", err)
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	count := 0
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("reading archive: %w", err)
		}

		target := filepath.Join(absDest, filepath.FromSlash(hdr.Name))
		if target == absDest || !fs.Within(absDest, target) {
			return count, fmt.Errorf("archive entry %q escapes %s", hdr.Name, absDest)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return count, fmt.Errorf("creating %s: %w", hdr.Name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return count, fmt.Errorf("creating parent of %s: %w", hdr.Name, err)
			}
			perm := os.FileMode(hdr.Mode).Perm()
			if perm == 0 {
				perm = 0644
			}
			if _, err := fs.WriteFileAtomic(target, tr, perm); err != nil {
				return count, fmt.Errorf("writing %s: %w", hdr.Name, err)
			}
			count++
		default:
			return count, fmt.Errorf("archive entry %q has unsupported type %q", hdr.Name, string(hdr.Typeflag))
		}
	}
	return count, nil
}

// IsArchiveName reports whether name looks like an encrypted archive ID.
func IsArchiveName(name string) bool {
	return strings.HasSuffix(name, Extension)
}

// Extension is the suffix of every encrypted archive ID.
const Extension = ".tar.gz.age"
