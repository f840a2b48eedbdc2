package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ziadkadry99/city-intake/internal/api"
	"github.com/ziadkadry99/city-intake/internal/department"
	"github.com/ziadkadry99/city-intake/internal/intake"
	"github.com/ziadkadry99/city-intake/internal/session"
)

// mockAgent implements api.Agent for testing.
type mockAgent struct {
	sessionID string
	message   string
	err       error
}

func (m *mockAgent) HandleMessage(_ context.Context, sessionID, message string) (*intake.Result, error) {
	m.sessionID = sessionID
	m.message = message
	if m.err != nil {
		return nil, m.err
	}
	if sessionID == "" {
		sessionID = "generated-id"
	}
	return &intake.Result{
		Response:   "Thank you. How severe is the issue on a scale of 1 to 10?",
		SessionID:  sessionID,
		Department: department.Waste,
		Status:     session.StatusAwaitingSeverity,
	}, nil
}

func (m *mockAgent) Classify(_ context.Context, message string) department.Department {
	if strings.Contains(message, "light") {
		return department.Energy
	}
	return department.Traffic
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
		required []string
	}{
		{submitMessageTool, "submit_message", []string{"message"}},
		{classifyMessageTool, "classify_message", []string{"message"}},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
			if strings.Join(tt.tool.InputSchema.Required, ",") != strings.Join(tt.required, ",") {
				t.Errorf("required = %v, want %v", tt.tool.InputSchema.Required, tt.required)
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	agent := &mockAgent{}
	srv := NewServer(agent, nil)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.agent != agent {
		t.Error("agent not set correctly")
	}
}

func TestHandleSubmitMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("new conversation", func(t *testing.T) {
		agent := &mockAgent{}
		srv := NewServer(agent, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"message": "there is garbage overflowing"}

		result, err := srv.handleSubmitMessage(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}

		var resp api.ChatResponse
		if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
			t.Fatalf("result is not JSON: %v", err)
		}
		if resp.SessionID != "generated-id" {
			t.Errorf("session_id = %q", resp.SessionID)
		}
		if resp.Department != "waste" || resp.Status != "awaiting_severity" {
			t.Errorf("unexpected response: %+v", resp)
		}
		if agent.sessionID != "" {
			t.Errorf("agent should receive an empty session id, got %q", agent.sessionID)
		}
	})

	t.Run("continues session", func(t *testing.T) {
		agent := &mockAgent{}
		srv := NewServer(agent, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"message": "7", "session_id": "abc"}

		if _, err := srv.handleSubmitMessage(ctx, req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if agent.sessionID != "abc" || agent.message != "7" {
			t.Errorf("agent got session %q message %q", agent.sessionID, agent.message)
		}
	})

	t.Run("missing message", func(t *testing.T) {
		srv := NewServer(&mockAgent{}, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSubmitMessage(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing message")
		}
	})

	t.Run("agent failure", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		srv := NewServer(&mockAgent{err: errors.New("store unavailable: /var/lib/intake.db")}, zap.New(core))
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"message": "hi", "session_id": "s-9"}

		result, err := srv.handleSubmitMessage(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error when the agent fails")
		}
		text := resultText(t, result)
		if text != genericError {
			t.Errorf("tool error = %q, want %q", text, genericError)
		}
		if strings.Contains(text, "store unavailable") || strings.Contains(text, "intake.db") {
			t.Errorf("tool error leaks internal detail: %q", text)
		}

		entries := logs.FilterMessage("submit_message failed").All()
		if len(entries) != 1 {
			t.Fatalf("logged %d failures, want 1", len(entries))
		}
		fields := entries[0].ContextMap()
		if fields["session_id"] != "s-9" {
			t.Errorf("session_id = %v, want s-9", fields["session_id"])
		}
		if !strings.Contains(fields["error"].(string), "store unavailable") {
			t.Errorf("logged error = %v, want the agent error", fields["error"])
		}
	})
}

func TestHandleClassifyMessage(t *testing.T) {
	srv := NewServer(&mockAgent{}, nil)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"message": "the street light is out"}

	result, err := srv.handleClassifyMessage(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	var resp api.ClassifyResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if resp.Department != department.Energy.Label() {
		t.Errorf("department = %q, want %q", resp.Department, department.Energy.Label())
	}
	if resp.Message != "the street light is out" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestHandleClassifyMessageMissing(t *testing.T) {
	srv := NewServer(&mockAgent{}, nil)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}

	result, err := srv.handleClassifyMessage(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error for missing message")
	}
}
