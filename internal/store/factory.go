package store

import (
	"fmt"

	"goodgood/internal/config"
	"goodgood/internal/gg"
)

// NewStoreFromConfig creates a Store implementation based on the store config type.
func NewStoreFromConfig(cfg config.StoreConfig) (gg.Store, error) {
	switch cfg.Type {
	case "filesystem", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("filesystem store requires data_dir to be set")
		}
		return NewFileSystemStore(cfg.DataDir)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
