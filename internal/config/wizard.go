package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to intake! Let's configure the issue reporting agent.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Conversation store.
	storePrompt := promptui.Select{
		Label: "Where should conversations be stored",
		Items: []string{"sqlite", "redis"},
	}
	_, backend, err := storePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("store selection: %w", err)
	}
	cfg.Store.Backend = StoreBackend(backend)

	if cfg.Store.Backend == StoreRedis {
		addrPrompt := promptui.Prompt{
			Label:   "Redis address",
			Default: cfg.Store.RedisAddr,
		}
		if cfg.Store.RedisAddr, err = addrPrompt.Run(); err != nil {
			return nil, fmt.Errorf("redis address: %w", err)
		}
	}

	// 2. Model fallback for messages keywords cannot route.
	providerPrompt := promptui.Select{
		Label: "Model used when keywords do not decide the department",
		Items: []string{"openai", "openrouter", "none"},
	}
	_, provider, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.LLM.Provider = ProviderType(provider)
	if cfg.LLM.Provider == ProviderOpenRouter {
		cfg.LLM.Model = "openai/gpt-3.5-turbo"
	}

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 4. Report webhook.
	webhookPrompt := promptui.Prompt{
		Label:   "Webhook URL for submitted reports (leave blank to skip)",
		Default: os.Getenv("WEBHOOK_URL"),
	}
	if cfg.Relay.WebhookURL, err = webhookPrompt.Run(); err != nil {
		return nil, fmt.Errorf("webhook url: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Check for API key.
	if envVar := APIKeyEnvVar(cfg.LLM.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running intake server.\n", envVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
