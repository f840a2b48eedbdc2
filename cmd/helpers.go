package cmd

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/city-intake/internal/classify"
	"github.com/ziadkadry99/city-intake/internal/config"
	"github.com/ziadkadry99/city-intake/internal/db"
	"github.com/ziadkadry99/city-intake/internal/intake"
	"github.com/ziadkadry99/city-intake/internal/llm"
	"github.com/ziadkadry99/city-intake/internal/logging"
	"github.com/ziadkadry99/city-intake/internal/notify"
	"github.com/ziadkadry99/city-intake/internal/reports"
	"github.com/ziadkadry99/city-intake/internal/session"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `intake init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func newLogger() (*zap.Logger, error) {
	logger, err := logging.New(verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

// newClassifier builds the department classifier. A provider that cannot be
// created leaves the classifier on keyword routing.
func newClassifier(cfg *config.Config, logger *zap.Logger) *classify.Classifier {
	provider, err := llm.NewProvider(string(cfg.LLM.Provider), cfg.LLM.Model)
	if err != nil {
		logger.Warn("LLM provider unavailable, using keyword routing only", zap.Error(err))
		provider = nil
	}
	if provider != nil && cfg.LLM.RPM > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.LLM.RPM)
	}
	return classify.New(provider, cfg.LLM.Model, cfg.LLM.Timeout, logger)
}

// app is the fully wired intake agent with the resources it holds open.
type app struct {
	agent   *intake.Agent
	db      *db.DB
	reports *reports.Store
	closers []func() error
}

// newApp opens the stores and wires the agent described by cfg.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	database, err := db.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a := &app{db: database, reports: reports.NewStore(database)}
	a.closers = append(a.closers, database.Close)

	var sessions session.Store
	switch cfg.Store.Backend {
	case config.StoreRedis:
		rs := session.NewRedisStore(cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB, cfg.Store.TTL)
		a.closers = append(a.closers, rs.Close)
		if err := rs.Ping(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Store.RedisAddr, err)
		}
		sessions = rs
	default:
		sessions = session.NewSQLStore(database)
	}

	var relays notify.Fanout
	if cfg.Relay.WebhookURL != "" {
		relays = append(relays, notify.NewWebhookRelay(cfg.Relay.WebhookURL, cfg.Relay.Timeout))
	}
	if cfg.Relay.SlackWebhookURL != "" {
		relays = append(relays, notify.NewSlackRelay(cfg.Relay.SlackWebhookURL))
	}

	agent, err := intake.New(intake.Config{
		Sessions:     sessions,
		Reports:      a.reports,
		Relay:        relays,
		Classifier:   newClassifier(cfg, logger),
		Logger:       logger,
		RelayTimeout: cfg.Relay.Timeout,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.agent = agent

	logger.Info("intake agent ready",
		zap.String("store", string(cfg.Store.Backend)),
		zap.String("database", database.Path()),
		zap.String("llm_provider", string(cfg.LLM.Provider)),
		zap.Int("relays", len(relays)),
	)
	return a, nil
}

// Close waits for in-flight report deliveries, then releases the stores.
func (a *app) Close() error {
	if a.agent != nil {
		a.agent.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
