// Package streamserver fans a running experiment's frames out over
// websocket connections. It is purely an observer: nothing here feeds back
// into the step loop, and a run with no client connected never waits.
// Frames are written synchronously from the caller's goroutine with no
// write deadline, so a client that stops reading can block the run while
// its write is pending.
package streamserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/simuforge/simuforge/metricworld"
)

// Hub accepts websocket connections on Handle and broadcasts every frame
// passed to Frame to all currently connected clients.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub creates an empty Hub. logger defaults to slog.Default() if nil.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handle upgrades the request to a websocket connection and registers it
// for broadcasts until the client disconnects.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("streamserver: upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// Drain and discard client reads; the protocol is server-to-client only.
	// The read loop's sole purpose is detecting disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Frame implements runner.FrameSink, broadcasting f to every connected
// client. A write failure drops that client without affecting the others
// or the caller.
func (h *Hub) Frame(f *metricworld.MetricFrame) {
	data, err := json.Marshal(f)
	if err != nil {
		h.logger.Warn("streamserver: failed to marshal frame", "error", err)
		return
	}

	h.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		targets = append(targets, conn)
	}
	h.mu.Unlock()

	for _, conn := range targets {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(conn)
		}
	}
}

// ListenAndServe starts an HTTP server on addr with the hub mounted at
// /stream. It blocks until the server stops or fails.
func (h *Hub) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/stream", h.Handle)
	h.logger.Info("streamserver: listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}
