package encryption

import (
	"fmt"

	"goodgood/internal/config"
	"goodgood/internal/gg"
)

// NewEncryptorFromConfig creates the archive Encryptor named by the encryption
// config type. The age backend is the default and needs both key paths; the
// keys themselves are read on first use, so `config keys` can build one
// before they exist. The test backend frames data without encrypting it.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (gg.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		if cfg.PublicKeyPath == "" || cfg.PrivateKeyPath == "" {
			return nil, fmt.Errorf("age encryption requires public_key_path and private_key_path")
		}
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
