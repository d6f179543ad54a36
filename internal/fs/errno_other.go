//go:build !unix

package fs

import (
	"fmt"
	"syscall"
)

func errnoName(errno syscall.Errno) string {
	return fmt.Sprintf("ERRNO%d", uintptr(errno))
}
