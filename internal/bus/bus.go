// Package bus exposes the daemon to GUI shells over a websocket hub. A shell
// connects, sends command messages and receives replies; firing alarms and
// reminders are broadcast to every connected shell as notices.
package bus

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// Message is the wire format in both directions. Kinds: "command" (shell →
// daemon), "reply" and "notice" (daemon → shell).
type Message struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// Hub accepts websocket shells and fans notices out to them.
type Hub struct {
	upgrader websocket.Upgrader
	handle   func(text string) string

	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex // per-conn write lock
}

// NewHub wires the hub to a command handler that returns the spoken reply.
func NewHub(handle func(text string) string) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Shells are local; the hub binds to loopback by default.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handle:  handle,
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Router returns the HTTP surface: the websocket endpoint and a health probe.
func (h *Hub) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", h.serveWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
		return
	}

	lock := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = lock
	h.mu.Unlock()
	slog.Info("shell connected", "remote", conn.RemoteAddr())

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
		slog.Info("shell disconnected", "remote", conn.RemoteAddr())
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !isClosed(err) {
				slog.Warn("shell read failed", "err", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.write(conn, lock, Message{Kind: "reply", Content: "Sorry, I couldn't read that message."})
			continue
		}
		if msg.Kind != "command" {
			continue
		}
		h.write(conn, lock, Message{Kind: "reply", Content: h.handle(msg.Content)})
	}
}

// ShowNotice broadcasts a firing to all connected shells; it satisfies the
// notifier's sink interface. No shells connected is not an error.
func (h *Hub) ShowNotice(title, message string) error {
	h.mu.Lock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(h.clients))
	for c, l := range h.clients {
		conns[c] = l
	}
	h.mu.Unlock()

	for conn, lock := range conns {
		h.write(conn, lock, Message{Kind: "notice", Content: title + ": " + message})
	}
	return nil
}

func (h *Hub) write(conn *websocket.Conn, lock *sync.Mutex, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	lock.Lock()
	defer lock.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil && !isClosed(err) {
		slog.Warn("shell write failed", "err", err)
	}
}

func isClosed(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure)
}
