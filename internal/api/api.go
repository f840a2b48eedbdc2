// Package api exposes the intake agent over HTTP and WebSocket.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ziadkadry99/city-intake/internal/department"
	"github.com/ziadkadry99/city-intake/internal/intake"
)

// requestTimeout bounds a single HTTP turn, including the model call.
const requestTimeout = 30 * time.Second

const genericError = "failed to process message"

// Agent is the part of intake.Agent the transport needs.
type Agent interface {
	HandleMessage(ctx context.Context, sessionID, message string) (*intake.Result, error)
	Classify(ctx context.Context, message string) department.Department
}

// ChatRequest is the body of POST /chat and of each WebSocket message.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the reply to a chat turn.
type ChatResponse struct {
	Response   string `json:"response"`
	SessionID  string `json:"session_id"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

// ClassifyRequest is the body of POST /classify.
type ClassifyRequest struct {
	Message string `json:"message"`
}

// ClassifyResponse reports the department a message would be routed to.
type ClassifyResponse struct {
	Message    string `json:"message"`
	Department string `json:"department"`
	Confidence string `json:"confidence"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status      string   `json:"status"`
	Departments []string `json:"departments"`
}

type handler struct {
	agent  Agent
	logger *zap.Logger
	ws     *WebSockets
}

// RegisterRoutes mounts the chat, classify, health and WebSocket endpoints.
// The returned WebSockets must be closed on shutdown.
func RegisterRoutes(r chi.Router, agent Agent, logger *zap.Logger) *WebSockets {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handler{agent: agent, logger: logger.With(zap.String("component", "api")), ws: newWebSockets()}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Post("/chat", h.handleChat)
		r.Post("/classify", h.handleClassify)
	})
	r.Get("/health", h.handleHealth)
	r.Get("/ws/chat", h.handleWebSocket)
	return h.ws
}

// NewChatResponse converts an agent result to its wire form.
func NewChatResponse(res *intake.Result) ChatResponse {
	return ChatResponse{
		Response:   res.Response,
		SessionID:  res.SessionID,
		Department: string(res.Department),
		Status:     string(res.Status),
	}
}

// NewClassifyResponse builds the classify reply for message.
func NewClassifyResponse(message string, d department.Department) ClassifyResponse {
	return ClassifyResponse{
		Message:    message,
		Department: d.Label(),
		Confidence: "high",
	}
}

func (h *handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := h.agent.HandleMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.logger.Error("chat turn failed", zap.String("session_id", req.SessionID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": genericError})
		return
	}

	writeJSON(w, http.StatusOK, NewChatResponse(res))
}

func (h *handler) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	d := h.agent.Classify(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, NewClassifyResponse(req.Message, d))
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Departments: department.Labels(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
