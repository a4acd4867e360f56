package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub keeps the set of connected clients and fans broadcasts out to them.
type Hub struct {
	logger *zap.Logger

	clients   map[*Client]struct{}
	clientsMu sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a hub bound to ctx. Start must be called to run it.
func NewHub(ctx context.Context, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	hubCtx, cancel := context.WithCancel(ctx)

	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 1024),
		ctx:        hubCtx,
		cancel:     cancel,
	}
}

// Start runs the hub's event loop until Shutdown.
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case <-h.ctx.Done():
			h.cleanup()
			return

		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = struct{}{}
			h.clientsMu.Unlock()
			h.logger.Debug("client registered", zap.String("client", client.ID), zap.Int("total", h.ClientCount()))

		case client := <-h.unregister:
			h.remove(client)

		case data := <-h.broadcast:
			h.broadcastToAll(data)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.closed.Store(true)
		close(client.send)
	}
	h.clientsMu.Unlock()
	h.logger.Debug("client unregistered", zap.String("client", client.ID), zap.Int("total", h.ClientCount()))
}

func (h *Hub) broadcastToAll(data []byte) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("skipping client, send buffer full", zap.String("client", client.ID))
		}
	}
}

// Broadcast queues a message for every connected client. It never blocks;
// messages are dropped when the hub is backed up or shut down.
func (h *Hub) Broadcast(msg *Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal broadcast", zap.Error(err))
		return false
	}

	select {
	case <-h.ctx.Done():
		return false
	default:
	}

	select {
	case h.broadcast <- data:
		return true
	default:
		h.logger.Warn("broadcast queue full, message dropped", zap.String("type", msg.Type))
		return false
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) cleanup() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.Debug("hub shutting down", zap.Int("clients", len(h.clients)))
	for client := range h.clients {
		client.closed.Store(true)
		if client.conn != nil {
			client.conn.Close()
		}
	}
	clear(h.clients)
}

// Shutdown stops the event loop and disconnects all clients.
func (h *Hub) Shutdown() {
	h.cancel()
	h.wg.Wait()
}
