package inspector

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/reconcile/internal/errors"
)

const writeWait = 5 * time.Second

// Hub manages WebSocket connections and fans messages out to them.
type Hub struct {
	clients  map[*websocket.Conn]*sync.Mutex
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger

	// hello returns the message sent to a client right after it connects.
	hello func() *Message
}

// NewHub creates a new hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]*sync.Mutex),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // local tool
			},
		},
	}
}

// HandleWebSocket upgrades the request and keeps the connection registered
// until the client goes away.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("inspector: upgrade failed", "error", errors.New("E061").Wrap(err))
		return
	}

	lock := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = lock
	h.mu.Unlock()

	if h.hello != nil {
		if msg := h.hello(); msg != nil {
			if data, err := json.Marshal(msg); err == nil {
				h.send(conn, lock, data)
			}
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
}

// Broadcast sends msg to every connected client. Clients that fail to
// receive it are disconnected.
func (h *Hub) Broadcast(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("inspector: encode message", "error", err)
		return
	}

	h.mu.RLock()
	type client struct {
		conn *websocket.Conn
		lock *sync.Mutex
	}
	clients := make([]client, 0, len(h.clients))
	for conn, lock := range h.clients {
		clients = append(clients, client{conn, lock})
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.send(c.conn, c.lock, data)
	}
}

func (h *Hub) send(conn *websocket.Conn, lock *sync.Mutex, data []byte) {
	lock.Lock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := conn.WriteMessage(websocket.TextMessage, data)
	lock.Unlock()
	if err != nil {
		h.drop(conn)
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		conn.Close()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}
