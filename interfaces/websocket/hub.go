package websocket

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Hub tracks active layout sessions so they can be counted and shut down
// together. Each session owns its own layout controller; the hub carries no
// per-frame state.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]bool

	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

// NewHub creates a websocket hub
func NewHub(logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients: make(map[*Client]bool),
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger,
	}
}

// Stop closes every active session and refuses new ones
func (h *Hub) Stop() {
	h.logger.Info("Stopping WebSocket hub")
	h.cancel()

	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		client.close()
	}
}

// ActiveSessions returns the number of live layout sessions
func (h *Hub) ActiveSessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
	h.logger.Info("Layout session started",
		zap.String("graphID", client.graphID),
		zap.Int("activeSessions", len(h.clients)),
	)
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	h.logger.Info("Layout session ended",
		zap.String("graphID", client.graphID),
		zap.Int("activeSessions", len(h.clients)),
	)
}
