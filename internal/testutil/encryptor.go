package testutil

import (
	"goodgood/internal/encryption"
	"goodgood/internal/gg"
)

// NewTestEncryptor creates a deterministic, non-cryptographic encryptor.
func NewTestEncryptor() gg.Encryptor {
	return encryption.NewTestEncryptor()
}
