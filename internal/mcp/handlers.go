package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/ziadkadry99/city-intake/internal/api"
)

const genericError = "failed to process message"

func (s *Server) handleSubmitMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}
	sessionID := request.GetString("session_id", "")

	res, err := s.agent.HandleMessage(ctx, sessionID, message)
	if err != nil {
		s.logger.Error("submit_message failed", zap.String("session_id", sessionID), zap.Error(err))
		return mcp.NewToolResultError(genericError), nil
	}
	return jsonResult(api.NewChatResponse(res))
}

func (s *Server) handleClassifyMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}
	return jsonResult(api.NewClassifyResponse(message, s.agent.Classify(ctx, message)))
}

// jsonResult returns v as indented JSON text, the same shape the HTTP API
// responds with.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
