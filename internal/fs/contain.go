package fs

import (
	"errors"
	"path/filepath"
	"strings"
	"syscall"
)

// Within reports whether target is base itself or lies beneath it.
// Both paths are cleaned first; no symlinks are resolved.
func Within(base, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(target))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// ErrorClass names the OS error behind err, e.g. "EACCES".
// Errors without an errno report "EIO".
func ErrorClass(err error) string {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		if name := errnoName(errno); name != "" {
			return name
		}
	}
	return "EIO"
}
