package config

import "time"

// StoreBackend selects where conversation state is kept.
type StoreBackend string

const (
	StoreSQLite StoreBackend = "sqlite"
	StoreRedis  StoreBackend = "redis"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderNone       ProviderType = "none"
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
)

// Config is the top-level intake configuration, corresponding to intake.yml.
type Config struct {
	Server ServerConfig `yaml:"server" koanf:"server"`
	Store  StoreConfig  `yaml:"store" koanf:"store"`
	LLM    LLMConfig    `yaml:"llm" koanf:"llm"`
	Relay  RelayConfig  `yaml:"relay" koanf:"relay"`
	Bots   BotsConfig   `yaml:"bots" koanf:"bots"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int      `yaml:"port" koanf:"port"`
	AllowAllOrigins bool     `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	AllowedOrigins  []string `yaml:"allowed_origins" koanf:"allowed_origins"`
}

// StoreConfig holds persistence settings. Reports always go to the SQLite
// database at Path; conversations go to Backend.
type StoreConfig struct {
	Backend       StoreBackend  `yaml:"backend" koanf:"backend"`
	Path          string        `yaml:"path" koanf:"path"`
	RedisAddr     string        `yaml:"redis_addr" koanf:"redis_addr"`
	RedisPassword string        `yaml:"redis_password" koanf:"redis_password"`
	RedisDB       int           `yaml:"redis_db" koanf:"redis_db"`
	TTL           time.Duration `yaml:"ttl" koanf:"ttl"`
}

// LLMConfig holds the optional model used when keyword routing finds nothing.
type LLMConfig struct {
	Provider ProviderType  `yaml:"provider" koanf:"provider"`
	Model    string        `yaml:"model" koanf:"model"`
	Timeout  time.Duration `yaml:"timeout" koanf:"timeout"`
	RPM      int           `yaml:"rpm" koanf:"rpm"`
}

// RelayConfig holds the destinations completed reports are forwarded to.
type RelayConfig struct {
	WebhookURL      string        `yaml:"webhook_url" koanf:"webhook_url"`
	SlackWebhookURL string        `yaml:"slack_webhook_url" koanf:"slack_webhook_url"`
	Timeout         time.Duration `yaml:"timeout" koanf:"timeout"`
}

// BotsConfig holds chat platform settings.
type BotsConfig struct {
	SlackSigningSecret string `yaml:"slack_signing_secret" koanf:"slack_signing_secret"`
	// SlackBotToken authorizes chat.postMessage for replies.
	SlackBotToken string `yaml:"slack_bot_token" koanf:"slack_bot_token"`
}
