package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Debug clients only send pings.
	maxMessageSize = 4 * 1024
)

// ErrClientClosed is returned when sending to a disconnected client.
var ErrClientClosed = errors.New("client closed")

// Client is one connected debug viewer.
type Client struct {
	ID string

	conn *websocket.Conn
	hub  *Hub
	send chan []byte

	ctx    context.Context
	cancel context.CancelFunc

	closed atomic.Bool
}

func newClient(id string, conn *websocket.Conn, hub *Hub) *Client {
	ctx, cancel := context.WithCancel(hub.ctx)
	return &Client{
		ID:     id,
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, 256),
		ctx:    ctx,
		cancel: cancel,
	}
}

// readPump consumes frames from the peer until the connection fails.
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read failed", zap.String("client", c.ID), zap.Error(err))
			}
			return
		}

		reply := &Message{Type: TypePong}
		if msg.Type != TypePing {
			reply, _ = NewMessage(TypeError, map[string]string{"message": "unsupported message type " + msg.Type})
		}
		if err := c.Send(reply); err != nil {
			return
		}
	}
}

// writePump forwards queued frames to the peer and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues msg for this client only.
func (c *Client) Send(msg *Message) (err error) {
	// the hub may close send between the check and the write
	defer func() {
		if recover() != nil {
			err = ErrClientClosed
		}
	}()

	if c.closed.Load() {
		return ErrClientClosed
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return ErrClientClosed
	}
}
