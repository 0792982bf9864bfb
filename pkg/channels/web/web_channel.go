package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"pagescope/pkg/api"
	"pagescope/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for decoupled UI
	},
}

type WebConfig struct {
	Port int `json:"port"` // Default: 9453
}

// CallFrame is the incoming WebSocket message requesting a tool invocation.
type CallFrame struct {
	ID   string         `json:"id"`
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// resultFrame is the outgoing reply to a CallFrame.
type resultFrame struct {
	ID      string             `json:"id"`
	Type    string             `json:"type"` // "result" or "error"
	Content []api.ContentBlock `json:"content,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// catalogFrame advertises the tool surface right after a client connects.
type catalogFrame struct {
	Type  string         `json:"type"` // "catalog"
	Tools []catalogEntry `json:"tools"`
}

type catalogEntry struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema"`
}

// SafeConn serializes writes so concurrent in-flight calls can reply on the
// same connection.
type SafeConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (sc *SafeConn) WriteJSON(v any) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return sc.Conn.WriteMessage(websocket.TextMessage, data)
}

// WebChannel exposes the tool catalog over a WebSocket JSON API, mainly for
// debugging UIs and non-MCP clients.
type WebChannel struct {
	config      WebConfig
	server      *http.Server
	connections map[string]*SafeConn // Map ClientID -> WS Connection
	mu          sync.RWMutex
}

func NewWebChannel(cfg WebConfig) *WebChannel {
	if cfg.Port == 0 {
		cfg.Port = 9453
	}
	return &WebChannel{
		config:      cfg,
		connections: make(map[string]*SafeConn),
	}
}

func (c *WebChannel) ID() string {
	return "web"
}

func (c *WebChannel) Start(ctx api.ChannelContext) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		c.handleWebSocket(w, r, ctx)
	})

	addr := fmt.Sprintf(":%d", c.config.Port)
	c.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	slog.Info("Web API listening", "port", c.config.Port)

	go func() {
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Web API server error", "error", err)
		}
	}()

	return nil
}

func (c *WebChannel) Stop() error {
	if c.server != nil {
		return c.server.Close()
	}
	return nil
}

func (c *WebChannel) handleWebSocket(w http.ResponseWriter, r *http.Request, gw api.ChannelContext) {
	rawConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WS Upgrade failed", "error", err)
		return
	}

	conn := &SafeConn{Conn: rawConn}
	clientID := uuid.NewString()

	c.mu.Lock()
	c.connections[clientID] = conn
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.connections, clientID)
		c.mu.Unlock()
		conn.Close()
	}()

	slog.Info("Web client connected", "client", clientID, "remote", r.RemoteAddr)

	// Send the tool catalog immediately so clients know what they can call.
	catalog := catalogFrame{Type: "catalog"}
	for _, t := range gw.Tools() {
		catalog.Tools = append(catalog.Tools, catalogEntry{
			Name:        t.Name(),
			Description: t.Description(),
			Schema:      t.Schema().JSON(),
		})
	}
	if err := conn.WriteJSON(catalog); err != nil {
		slog.Error("Failed to send catalog", "client", clientID, "error", err)
		return
	}

	session := api.SessionContext{ChannelID: c.ID(), ClientID: clientID}

	for {
		_, msgBytes, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var frame CallFrame
		if err := json.Unmarshal(msgBytes, &frame); err != nil || frame.Tool == "" {
			conn.WriteJSON(resultFrame{ID: frame.ID, Type: "error", Error: "malformed call frame"})
			continue
		}
		if frame.ID == "" {
			frame.ID = utils.GenerateID()
		}

		// Dispatch each call in its own goroutine so a slow capture does
		// not block the read loop; SafeConn serializes the replies.
		go func(frame CallFrame) {
			call := &api.ToolCall{
				Session: session,
				CallID:  frame.ID,
				Tool:    frame.Tool,
				Args:    frame.Args,
			}
			res, err := gw.Dispatch(context.Background(), call)
			if err != nil {
				conn.WriteJSON(resultFrame{ID: frame.ID, Type: "error", Error: err.Error()})
				return
			}
			conn.WriteJSON(resultFrame{ID: frame.ID, Type: "result", Content: res.Content})
		}(frame)
	}
}
