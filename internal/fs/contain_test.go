package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestWithin(t *testing.T) {
	base := filepath.FromSlash("/srv/data")

	tests := []struct {
		name   string
		target string
		want   bool
	}{
		{name: "base itself", target: "/srv/data", want: true},
		{name: "direct child", target: "/srv/data/latest.json", want: true},
		{name: "nested child", target: "/srv/data/daily/2026-02-01.json", want: true},
		{name: "parent", target: "/srv", want: false},
		{name: "escape via dotdot", target: "/srv/data/../../etc/passwd", want: false},
		{name: "sibling with shared prefix", target: "/srv/database/x", want: false},
		{name: "dotdot-prefixed name stays inside", target: "/srv/data/..hidden", want: true},
		{name: "unrelated root", target: "/etc/passwd", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Within(base, filepath.FromSlash(tt.target)); got != tt.want {
				t.Errorf("Within(%q, %q) = %v, want %v", base, tt.target, got, tt.want)
			}
		})
	}
}

func TestErrorClass(t *testing.T) {
	_, err := os.Open(filepath.Join(t.TempDir(), "missing"))
	if got := ErrorClass(err); got != errnoName(syscall.ENOENT) {
		t.Errorf("ErrorClass(open missing) = %q, want %q", got, errnoName(syscall.ENOENT))
	}

	wrapped := fmt.Errorf("reading: %w", err)
	if got := ErrorClass(wrapped); got != errnoName(syscall.ENOENT) {
		t.Errorf("ErrorClass(wrapped) = %q", got)
	}

	if got := ErrorClass(errors.New("plain")); got != "EIO" {
		t.Errorf("ErrorClass(plain) = %q, want EIO", got)
	}
}
