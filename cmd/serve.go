package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mcpserver "github.com/ziadkadry99/city-intake/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing the
submit_message and classify_message tools to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// zap writes to stderr, so stdout stays reserved for MCP messages.
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		a, err := newApp(context.Background(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		mcpserver.Version = Version
		logger.Info("intake MCP server started on stdio", zap.String("database", a.db.Path()))

		return mcpserver.NewServer(a.agent, logger).Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
