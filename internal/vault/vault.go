// Package vault implements gg.Vault backends for data archives.
package vault

import (
	"fmt"
	"io"
	"strings"
)

// validateID rejects archive IDs that could name anything other than a
// single object in the vault.
func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("invalid archive id: %q", id)
	}
	return nil
}

// countingReader counts bytes read through it so uploads can be checked
// against the declared size.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
