// Package preview streams map generation progress to browsers over
// WebSocket. Clients connect to /ws and receive one JSON frame per event;
// slow clients are dropped rather than allowed to stall generation.
package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/mapgen/internal/config"
	"github.com/lawnchairsociety/mapgen/internal/logger"
)

const (
	// writeWait is how long a frame write may block before the client is
	// considered dead.
	writeWait = 10 * time.Second

	// sendBufferSize is the per-client frame backlog before drops.
	sendBufferSize = 256
)

// Frame is one progress event sent to preview clients.
type Frame struct {
	// Event is "commit" for a placed cell, "reset" for a cleared area,
	// or "done" when generation finishes.
	Event string `json:"event"`

	X    int `json:"x"`
	Y    int `json:"y"`
	Tile int `json:"tile,omitempty"`

	// Committed and Total report overall progress.
	Committed int `json:"committed"`
	Total     int `json:"total"`
}

// Server broadcasts generation progress to WebSocket clients.
type Server struct {
	cfg        config.PreviewConfig
	httpServer *http.Server

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewServer creates a preview server for the given configuration.
func NewServer(cfg config.PreviewConfig) *Server {
	s := &Server{
		cfg:     cfg,
		clients: make(map[*client]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleUpgrade)
	s.httpServer = &http.Server{Addr: cfg.Addr, Handler: mux}

	return s
}

// Handler returns the HTTP handler serving the /ws endpoint.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured address until Shutdown. It always returns
// a non-nil error; after Shutdown the error is http.ErrServerClosed.
func (s *Server) Start() error {
	logger.Info("Preview server listening", "address", s.cfg.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the listener and disconnects all clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
	s.mu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

// ClientCount returns the number of connected preview clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Broadcast sends a frame to every connected client. Clients whose send
// buffer is full are disconnected.
func (s *Server) Broadcast(f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		logger.Error("Failed to encode preview frame", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// Client cannot keep up; cut it loose.
			logger.Warning("Dropping slow preview client", "remote_addr", c.conn.RemoteAddr())
			close(c.send)
			delete(s.clients, c)
		}
	}
}

// handleUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("Preview connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Preview upgrade failed", "error", err)
		return
	}

	if s.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(s.cfg.MaxMessageSize)
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	logger.Info("Preview client connected", "remote_addr", conn.RemoteAddr())

	go s.writePump(c)
	go s.readPump(c)
}

// writePump forwards broadcast frames to one client until its channel
// closes or a write fails.
func (s *Server) writePump(c *client) {
	defer c.conn.Close()

	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.remove(c)
			return
		}
	}

	// Channel closed: say goodbye cleanly.
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump discards client messages and detects disconnects.
func (s *Server) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			s.remove(c)
			return
		}
	}
}

// remove unregisters a client if it is still registered.
func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		close(c.send)
		delete(s.clients, c)
	}
}
