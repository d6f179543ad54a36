package gg

import "io"

// Vault stores data archives away from the served data tree.
// All operations stream so archives never need to fit in memory.
type Vault interface {
	// Put stores an archive under id. size is the number of bytes read from r.
	Put(id string, r io.Reader, size int64) error

	// Get retrieves the archive stored under id and writes it to w.
	Get(id string, w io.Writer) error

	// List returns the stored archive IDs in ascending order.
	List() ([]string, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
