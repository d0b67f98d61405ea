// Package sync pushes view-invalidation signals to connected clients.
// Whenever a user's todo collection changes on the server, every open
// connection of that user is told to refetch; the client answers with
// a full resync.
package sync

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Client is one websocket connection belonging to a user. A user may
// hold several (multiple tabs, multiple devices).
type Client struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
}

// InvalidateMessage tells a client its todo snapshot is stale.
type InvalidateMessage struct {
	Type   string `json:"type"` // always "invalidate"
	Reason string `json:"reason"`
	TodoID string `json:"todo_id"`
}

// Hub tracks connections grouped by owning user.
type Hub struct {
	clients    map[string]*Client
	byUser     map[string]map[string]bool
	register   chan *Client
	unregister chan *Client
	invalidate chan invalidation
	done       chan struct{}
	logger     *slog.Logger
	mu         sync.RWMutex
}

type invalidation struct {
	userID string
	msg    InvalidateMessage
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		byUser:     make(map[string]map[string]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		invalidate: make(chan invalidation, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run drives the hub until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		case inv := <-h.invalidate:
			h.send(inv)
		}
	}
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

// Register adds a connection to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a connection from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Invalidate queues an invalidation push to all of a user's
// connections. Delivery is best-effort.
func (h *Hub) Invalidate(userID, reason, todoID string) {
	h.invalidate <- invalidation{
		userID: userID,
		msg: InvalidateMessage{
			Type:   "invalidate",
			Reason: reason,
			TodoID: todoID,
		},
	}
}

// ConnectionCount returns the number of open connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	if h.byUser[client.UserID] == nil {
		h.byUser[client.UserID] = make(map[string]bool)
	}
	h.byUser[client.UserID][client.ID] = true
	h.logger.Info("sync client connected", "client_id", client.ID, "user_id", client.UserID)
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	if conns := h.byUser[client.UserID]; conns != nil {
		delete(conns, client.ID)
		if len(conns) == 0 {
			delete(h.byUser, client.UserID)
		}
	}
	h.logger.Info("sync client disconnected", "client_id", client.ID, "user_id", client.UserID)
}

func (h *Hub) send(inv invalidation) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(inv.msg)
	if err != nil {
		h.logger.Error("failed to marshal invalidation", "error", err)
		return
	}

	for clientID := range h.byUser[inv.userID] {
		client, ok := h.clients[clientID]
		if !ok {
			continue
		}
		if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warn("failed to push invalidation",
				"client_id", clientID, "user_id", inv.userID, "error", err)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		_ = client.Conn.Close()
	}
	h.clients = make(map[string]*Client)
	h.byUser = make(map[string]map[string]bool)
}
