package database

import (
	"fmt"
	"os"
	"path/filepath"

	"goodgood/internal/config"
	"goodgood/internal/gg"
)

// historyFileName is the run history database inside the configured data dir.
const historyFileName = "runs.db"

// NewHistoryFromConfig creates a History implementation based on the database config type.
func NewHistoryFromConfig(cfg config.DatabaseConfig) (gg.History, error) {
	switch cfg.Type {
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		h, err := NewSQLiteHistory(filepath.Join(cfg.DataDir, historyFileName))
		if err != nil {
			return nil, err
		}
		if err := h.CheckMigrations(); err != nil {
			h.Close()
			return nil, fmt.Errorf("run history schema: %w", err)
		}
		return h, nil
	case "memory":
		h, err := NewSQLiteHistory(":memory:")
		if err != nil {
			return nil, err
		}
		return h, nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
