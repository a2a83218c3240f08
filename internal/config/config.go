package config

import "fmt"

// Config is the application configuration for the feather CLI.
type Config struct {
	// Provider selects the endpoint adapter: "openai" or "anthropic".
	Provider string `json:"provider" mapstructure:"provider"`

	// APIKey authenticates against the provider.
	APIKey string `json:"api_key" mapstructure:"api_key"`

	// BaseURL points the OpenAI adapter at an OpenAI-compatible gateway
	// such as OpenRouter. Ignored by the anthropic provider.
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// Model is the default model identifier.
	Model string `json:"model" mapstructure:"model"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
	Debug   DebugConfig   `json:"debug" mapstructure:"debug"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// DebugConfig holds the optional WebSocket debug sink settings.
type DebugConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Addr    string `json:"addr" mapstructure:"addr"`
}

// DefaultConfig returns configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: "openai",
		BaseURL:  "https://openrouter.ai/api/v1",
		Model:    "openai/gpt-4o",
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
		Debug: DebugConfig{
			Enabled: false,
			Addr:    "127.0.0.1:8587",
		},
	}
}

// Validate checks the configuration for required fields.
func (c *Config) Validate() error {
	switch c.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("provider must be openai or anthropic, got %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("api key is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Debug.Enabled && c.Debug.Addr == "" {
		return fmt.Errorf("debug addr is required when debug is enabled")
	}
	return nil
}
