package provider

import (
	"fmt"

	"goodgood/internal/config"
	"goodgood/internal/gg"
)

// NewFromConfig creates a ContentProvider based on the configuration type.
// Secrets must already be resolved (see config.Config.ResolveSecrets).
func NewFromConfig(cfg config.ProviderConfig) (gg.ContentProvider, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	var p gg.ContentProvider
	switch cfg.Type {
	case "openai", "":
		p, err = NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL, timeout)
	case "anthropic":
		p, err = NewAnthropic(cfg.APIKey, cfg.Model, cfg.BaseURL, timeout)
	case "gemini":
		p, err = NewGemini(cfg.APIKey, cfg.Model, cfg.BaseURL, timeout)
	case "file":
		p, err = NewFile(cfg.FixturePath)
	default:
		return nil, fmt.Errorf("unknown provider type: %q", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
