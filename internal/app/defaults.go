package app

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Defaults holds the paths used when no flag or config overrides them.
type Defaults struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
}

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - GOODGOOD_CONFIG_PATH: config file location (default: $XDG_CONFIG_HOME/goodgood.toml)
//   - GOODGOOD_HOME: base directory for data, keys and logs (default: $XDG_DATA_HOME/goodgood)
//
// getenv is os.Getenv outside tests.
func GetDefaults(getenv func(string) string) Defaults {
	configPath := getenv("GOODGOOD_CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(xdg.ConfigHome, "goodgood.toml")
	}

	baseDir := getenv("GOODGOOD_HOME")
	if baseDir == "" {
		baseDir = filepath.Join(xdg.DataHome, "goodgood")
	}

	return Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
	}
}
