// Package config provides configuration loading and validation for the bot,
// plus encrypted at-rest storage for transport API keys.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"spielbot/pkg/llm"
)

// Transport identifiers accepted in config.
const (
	TransportMock      = "mock"
	TransportOpenAI    = "openai"
	TransportAnthropic = "anthropic"
	TransportOllama    = "ollama"
	TransportGemini    = "gemini"
)

// Duration wraps time.Duration with YAML string parsing ("1s", "120s", "2m").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string like \"1s\": %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// BotConfig holds per-bot decision settings.
type BotConfig struct {
	Seed        int64    `yaml:"seed"`
	MaxAttempts int      `yaml:"max_attempts"`
	RetryDelay  Duration `yaml:"retry_delay"`
	CallTimeout Duration `yaml:"call_timeout"`
}

// LLMConfig selects and parameterizes the transport.
type LLMConfig struct {
	Transport  string `yaml:"transport"`
	Model      string `yaml:"model"`
	OllamaHost string `yaml:"ollama_host"`
}

// MetricsConfig controls the Prometheus recorder and scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PersistenceConfig controls the SQLite episode archive.
type PersistenceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is the full bot configuration.
type Config struct {
	Bot         BotConfig         `yaml:"bot"`
	LLM         LLMConfig         `yaml:"llm"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Persistence PersistenceConfig `yaml:"persistence"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Bot: BotConfig{
			Seed:        1,
			MaxAttempts: 3,
			RetryDelay:  Duration(time.Second),
			CallTimeout: Duration(llm.DefaultCallTimeout),
		},
		LLM: LLMConfig{
			Transport:  TransportMock,
			Model:      "gpt-5",
			OllamaHost: "http://localhost:11434",
		},
		Metrics: MetricsConfig{
			Addr: ":9091",
		},
		Persistence: PersistenceConfig{
			Path: "episodes.db",
		},
	}
}

// Load reads a YAML config file on top of defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the bot cannot run with.
func (c *Config) Validate() error {
	if c.Bot.MaxAttempts < 1 {
		return fmt.Errorf("bot.max_attempts must be at least 1, got %d", c.Bot.MaxAttempts)
	}
	if time.Duration(c.Bot.RetryDelay) < 0 {
		return fmt.Errorf("bot.retry_delay must not be negative")
	}
	if time.Duration(c.Bot.CallTimeout) <= 0 {
		return fmt.Errorf("bot.call_timeout must be positive")
	}

	switch c.LLM.Transport {
	case TransportMock, TransportOpenAI, TransportAnthropic, TransportOllama, TransportGemini:
	default:
		return fmt.Errorf("unknown llm.transport %q", c.LLM.Transport)
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr required when metrics are enabled")
	}
	if c.Persistence.Enabled && c.Persistence.Path == "" {
		return fmt.Errorf("persistence.path required when persistence is enabled")
	}
	return nil
}

// RetryConfig converts the bot settings into the llm retry policy.
func (c *Config) RetryConfig() llm.RetryConfig {
	return llm.RetryConfig{
		MaxAttempts: c.Bot.MaxAttempts,
		Delay:       time.Duration(c.Bot.RetryDelay),
		CallTimeout: time.Duration(c.Bot.CallTimeout),
	}
}
