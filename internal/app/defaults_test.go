package app

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		env := map[string]string{
			"GOODGOOD_CONFIG_PATH": "/custom/config.toml",
			"GOODGOOD_HOME":        "/custom/gg",
		}
		d := GetDefaults(func(k string) string { return env[k] })

		if d.ConfigPath != "/custom/config.toml" {
			t.Errorf("ConfigPath = %q, want %q", d.ConfigPath, "/custom/config.toml")
		}
		if d.BaseDir != "/custom/gg" {
			t.Errorf("BaseDir = %q, want %q", d.BaseDir, "/custom/gg")
		}
		if d.LogDir != "/custom/gg/log" {
			t.Errorf("LogDir = %q, want %q", d.LogDir, "/custom/gg/log")
		}
	})

	t.Run("falls back to XDG directories", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
		t.Setenv("XDG_DATA_HOME", "/xdg/data")
		xdg.Reload()
		t.Cleanup(xdg.Reload)

		d := GetDefaults(func(string) string { return "" })

		if want := filepath.Join("/xdg/config", "goodgood.toml"); d.ConfigPath != want {
			t.Errorf("ConfigPath = %q, want %q", d.ConfigPath, want)
		}
		if want := filepath.Join("/xdg/data", "goodgood"); d.BaseDir != want {
			t.Errorf("BaseDir = %q, want %q", d.BaseDir, want)
		}
		if want := filepath.Join("/xdg/data", "goodgood", "log"); d.LogDir != want {
			t.Errorf("LogDir = %q, want %q", d.LogDir, want)
		}
	})
}
