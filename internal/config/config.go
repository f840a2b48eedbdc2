// Package config loads intake settings from intake.yml and the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix starts every environment override. A double underscore separates
// nesting levels: INTAKE_SERVER__PORT sets server.port.
const EnvPrefix = "INTAKE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (INTAKE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// A configured list replaces the default one rather than merging into it.
	if k.Exists("server.allowed_origins") {
		cfg.Server.AllowedOrigins = nil
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Plain WEBHOOK_URL and SLACK_BOT_TOKEN are what existing deployments set.
	if cfg.Relay.WebhookURL == "" {
		cfg.Relay.WebhookURL = os.Getenv("WEBHOOK_URL")
	}
	if cfg.Bots.SlackBotToken == "" {
		cfg.Bots.SlackBotToken = os.Getenv("SLACK_BOT_TOKEN")
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validBackends = map[StoreBackend]bool{
	StoreSQLite: true,
	StoreRedis:  true,
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderNone:       true,
	ProviderOpenAI:     true,
	ProviderOpenRouter: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if !validBackends[c.Store.Backend] {
		return fmt.Errorf("invalid store.backend %q: must be one of sqlite, redis", c.Store.Backend)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Store.Backend == StoreRedis && c.Store.RedisAddr == "" {
		return fmt.Errorf("store.redis_addr is required for the redis backend")
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("store.ttl must be non-negative")
	}

	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid llm.provider %q: must be one of none, openai, openrouter", c.LLM.Provider)
	}
	if c.LLM.Provider != ProviderNone && c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout must be non-negative")
	}
	if c.LLM.RPM < 0 {
		return fmt.Errorf("llm.rpm must be non-negative")
	}

	if c.Relay.Timeout < 0 {
		return fmt.Errorf("relay.timeout must be non-negative")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	default:
		return ""
	}
}
