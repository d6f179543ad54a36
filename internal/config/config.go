package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultProviderTimeout bounds a single provider call when no timeout is configured.
const DefaultProviderTimeout = 60 * time.Second

// Config represents the main configuration for goodgood.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Store      StoreConfig      `toml:"store"`
	Provider   ProviderConfig   `toml:"provider"`
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Vaults     []VaultConfig    `toml:"vaults"`
	Encryption EncryptionConfig `toml:"encryption"`
	Archive    ArchiveConfig    `toml:"archive"`
}

// StoreConfig represents configuration for the content store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type    string `toml:"type"`               // "filesystem" (default) or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=filesystem
}

// ProviderConfig selects the content provider.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ProviderConfig struct {
	Type    string `toml:"type"`              // "openai", "anthropic", "gemini" or "file"
	Model   string `toml:"model,omitempty"`   // empty selects the provider's default model
	Timeout string `toml:"timeout,omitempty"` // Go duration, e.g. "90s"

	// HTTP provider fields (openai, anthropic, gemini)
	APIKey  string `toml:"api_key,omitempty"`  // falls back to the provider's environment variable
	BaseURL string `toml:"base_url,omitempty"` // overrides the public API endpoint

	// File provider fields (only used when Type == "file")
	FixturePath string `toml:"fixture_path,omitempty"`
}

// TimeoutDuration parses Timeout, returning DefaultProviderTimeout when unset.
func (p ProviderConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return DefaultProviderTimeout, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid provider timeout %q: %w", p.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid provider timeout %q: must be positive", p.Timeout)
	}
	return d, nil
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	MetricsAddr string `toml:"metrics_addr,omitempty"` // empty disables the metrics listener
	AssetDir    string `toml:"asset_dir"`
}

// EncryptionConfig holds paths to the age key pair used for archive encryption.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// ArchiveConfig holds settings for backups of the data directory.
type ArchiveConfig struct {
	Ignore []string `toml:"ignore"`
}

// VaultConfig represents configuration for a vault backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket string `toml:"s3_bucket,omitempty"`
	S3Prefix string `toml:"s3_prefix,omitempty"`
	S3Region string `toml:"s3_region,omitempty"`
	// S3-compatible stores (MinIO, R2, ...) need an endpoint and usually static keys.
	// Without keys the AWS default credential chain is used.
	S3Endpoint  string `toml:"s3_endpoint,omitempty"`
	S3AccessKey string `toml:"s3_access_key,omitempty"`
	S3SecretKey string `toml:"s3_secret_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// DatabaseConfig represents configuration for the run history database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// NewConfig creates a new Config rooted at baseDir with default paths and backends.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Store: StoreConfig{
			Type:    "filesystem",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Provider: ProviderConfig{
			Type:    "openai",
			Timeout: DefaultProviderTimeout.String(),
		},
		Server: ServerConfig{
			Addr:     ":8080",
			AssetDir: filepath.Join(baseDir, "web"),
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "goodgood.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "goodgood.key"),
		},
	}
}

// Validate checks that every tagged union names a known backend and that
// the fields it depends on are present.
func (c *Config) Validate() error {
	switch c.Store.Type {
	case "filesystem", "":
		if c.Store.DataDir == "" {
			return fmt.Errorf("store: data_dir is required for type filesystem")
		}
	case "memory":
	default:
		return fmt.Errorf("store: unknown type %q", c.Store.Type)
	}

	switch c.Provider.Type {
	case "openai", "anthropic", "gemini":
	case "file":
		if c.Provider.FixturePath == "" {
			return fmt.Errorf("provider: fixture_path is required for type file")
		}
	default:
		return fmt.Errorf("provider: unknown type %q", c.Provider.Type)
	}
	if _, err := c.Provider.TimeoutDuration(); err != nil {
		return fmt.Errorf("provider: %w", err)
	}

	switch c.Database.Type {
	case "sqlite", "memory", "":
	default:
		return fmt.Errorf("database: unknown type %q", c.Database.Type)
	}

	for i, v := range c.Vaults {
		switch v.Type {
		case "memory":
		case "filesystem":
			if v.FSVaultRoot == "" {
				return fmt.Errorf("vaults[%d]: fs_vault_root is required for type filesystem", i)
			}
		case "s3":
			if v.S3Bucket == "" {
				return fmt.Errorf("vaults[%d]: s3_bucket is required for type s3", i)
			}
		default:
			return fmt.Errorf("vaults[%d]: unknown type %q", i, v.Type)
		}
	}
	return nil
}

// apiKeyEnv maps HTTP provider types to the environment variable holding their key.
var apiKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// APIKeyEnv returns the environment variable consulted for the provider's API key.
func APIKeyEnv(providerType string) string {
	return apiKeyEnv[providerType]
}

// ResolveSecrets fills in secrets that are not set in the file from the
// environment. It is called once at startup; components never read the
// environment themselves.
func (c *Config) ResolveSecrets(getenv func(string) string) {
	if c.Provider.APIKey != "" {
		return
	}
	if name := apiKeyEnv[c.Provider.Type]; name != "" {
		c.Provider.APIKey = getenv(name)
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file may carry an API key.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
