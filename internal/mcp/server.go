// Package mcp exposes the intake agent to MCP clients over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ziadkadry99/city-intake/internal/api"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the intake conversation as tools.
type Server struct {
	agent  api.Agent
	logger *zap.Logger
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server backed by agent. Tool failures are
// logged to logger and reported to the client without detail.
func NewServer(agent api.Agent, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{agent: agent, logger: logger.With(zap.String("component", "mcp"))}

	s.mcp = server.NewMCPServer(
		"city-intake",
		Version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(submitMessageTool, s.handleSubmitMessage)
	s.mcp.AddTool(classifyMessageTool, s.handleClassifyMessage)

	return s
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
