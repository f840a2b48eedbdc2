package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/slack-go/slack"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/city-intake/internal/api"
	"github.com/ziadkadry99/city-intake/internal/bots"
	"github.com/ziadkadry99/city-intake/internal/reports"
	"github.com/ziadkadry99/city-intake/internal/server"
)

const shutdownTimeout = 15 * time.Second

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the intake HTTP server",
	Long: `Starts the intake HTTP server with the chat, classify, health and
WebSocket endpoints, the report API and the Slack and Teams bot webhooks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Port:           cfg.Server.Port,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowAll:       cfg.Server.AllowAllOrigins,
		}, logger)

		gateway := bots.NewGateway(bots.NewProcessor(a.agent, logger), logger)
		var poster bots.SlackPoster
		if cfg.Bots.SlackBotToken != "" {
			poster = slack.New(cfg.Bots.SlackBotToken)
		} else {
			logger.Warn("bots.slack_bot_token not set; Slack replies will be dropped")
		}
		slackHandler := bots.NewSlackHandler(gateway, cfg.Bots.SlackSigningSecret, poster)

		r := srv.Router()
		sockets := api.RegisterRoutes(r, a.agent, logger)
		reports.RegisterRoutes(r, a.reports)
		bots.RegisterRoutes(r, gateway, slackHandler)

		errCh := make(chan error, 1)
		go func() {
			logger.Info("intake server starting",
				zap.String("version", Version),
				zap.Int("port", cfg.Server.Port),
			)
			errCh <- srv.Start()
		}()

		select {
		case err = <-errCh:
		case <-ctx.Done():
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			err = srv.Shutdown(shutdownCtx)
			cancel()
			if startErr := <-errCh; startErr != nil {
				err = errors.Join(err, startErr)
			}
		}

		// Hijacked and acknowledged-but-unanswered work outlives Shutdown;
		// it must finish before the agent and stores are released.
		sockets.Close()
		slackHandler.Wait()

		if closeErr := a.Close(); closeErr != nil {
			logger.Error("closing stores", zap.Error(closeErr))
		}
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8000, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
