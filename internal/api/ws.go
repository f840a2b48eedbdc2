package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsError struct {
	Error string `json:"error"`
}

// WebSockets tracks the open /ws/chat connections. http.Server.Shutdown does
// not wait for hijacked connections, so the server closes them through Close
// before releasing the stores their turns use.
type WebSockets struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
	active sync.WaitGroup
}

func newWebSockets() *WebSockets {
	return &WebSockets{conns: make(map[*websocket.Conn]struct{})}
}

// track registers conn. It reports false once Close has been called.
func (ws *WebSockets) track(conn *websocket.Conn) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return false
	}
	ws.conns[conn] = struct{}{}
	ws.active.Add(1)
	return true
}

func (ws *WebSockets) untrack(conn *websocket.Conn) {
	ws.mu.Lock()
	delete(ws.conns, conn)
	ws.mu.Unlock()
	ws.active.Done()
}

// Close sends a going-away frame to every open connection, closes it, and
// waits for turns still running on those connections to finish. New
// connections are refused afterwards.
func (ws *WebSockets) Close() {
	ws.mu.Lock()
	ws.closed = true
	conns := make([]*websocket.Conn, 0, len(ws.conns))
	for c := range ws.conns {
		conns = append(conns, c)
	}
	ws.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, c := range conns {
		c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.Close()
	}
	ws.active.Wait()
}

// handleWebSocket runs chat turns over one connection. A message without a
// session id continues the session of the previous reply.
func (h *handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	if !h.ws.track(conn) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		return
	}
	defer h.ws.untrack(conn)

	var current string
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var req ChatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			h.send(conn, wsError{Error: "invalid message format"})
			continue
		}
		if req.SessionID == "" {
			req.SessionID = current
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		res, err := h.agent.HandleMessage(ctx, req.SessionID, req.Message)
		cancel()
		if err != nil {
			h.logger.Error("chat turn failed", zap.String("session_id", req.SessionID), zap.Error(err))
			h.send(conn, wsError{Error: genericError})
			continue
		}

		current = res.SessionID
		h.send(conn, NewChatResponse(res))
	}
}

func (h *handler) send(conn *websocket.Conn, v any) {
	if err := conn.WriteJSON(v); err != nil {
		h.logger.Warn("websocket write failed", zap.Error(err))
	}
}
