package config

import "time"

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "intake.yml"

// DefaultAllowedOrigins are the local front-end dev servers.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://localhost:5174",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8000,
			AllowedOrigins: append([]string(nil), DefaultAllowedOrigins...),
		},
		Store: StoreConfig{
			Backend:   StoreSQLite,
			Path:      "data/intake.db",
			RedisAddr: "localhost:6379",
		},
		LLM: LLMConfig{
			Provider: ProviderOpenAI,
			Model:    "gpt-3.5-turbo",
			Timeout:  10 * time.Second,
		},
		Relay: RelayConfig{
			Timeout: 10 * time.Second,
		},
	}
}
