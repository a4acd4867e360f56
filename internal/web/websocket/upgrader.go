package websocket

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Upgrader upgrades HTTP requests to websocket clients of a hub.
type Upgrader struct {
	upgrader websocket.Upgrader
	hub      *Hub
}

// NewUpgrader creates an upgrader registering clients with hub.
func NewUpgrader(hub *Hub) *Upgrader {
	return &Upgrader{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// debug viewers are served from anywhere on the robot network
			CheckOrigin: func(*http.Request) bool { return true },
		},
		hub: hub,
	}
}

// ServeHTTP handles websocket upgrade requests.
func (u *Upgrader) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := u.upgrader.Upgrade(w, r, nil)
	if err != nil {
		u.hub.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(uuid.NewString(), conn, u.hub)
	select {
	case u.hub.register <- client:
	case <-u.hub.ctx.Done():
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
