package vault

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"goodgood/internal/gg"
)

// MemoryVault is an in-memory implementation of the Vault interface.
// It is useful for testing. This implementation is safe for concurrent use.
type MemoryVault struct {
	name     string
	archives map[string][]byte // id -> archive bytes
	mu       sync.RWMutex
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:     name,
		archives: make(map[string][]byte),
	}
}

// Put stores an archive under id, replacing any previous one.
func (m *MemoryVault) Put(id string, r io.Reader, size int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.archives[id] = data
	return nil
}

// Get writes the archive stored under id to w.
func (m *MemoryVault) Get(id string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.archives[id]
	if !ok {
		return fmt.Errorf("archive not found: %s", id)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return nil
}

// List returns the stored IDs in ascending order.
func (m *MemoryVault) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.archives))
	for id := range m.archives {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryVault implements gg.Vault interface
var _ gg.Vault = (*MemoryVault)(nil)
