package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(context.Background(), zap.NewNop())
	hub.Start()

	srv := httptest.NewServer(NewUpgrader(hub))
	t.Cleanup(func() {
		srv.Close()
		hub.Shutdown()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, hub *Hub, url string, want int) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount() == want }, time.Second, 5*time.Millisecond)
	return ws
}

func TestHub_PingPong(t *testing.T) {
	hub, url := startHub(t)
	ws := dial(t, hub, url, 1)

	require.NoError(t, ws.WriteJSON(Message{Type: TypePing}))

	var reply Message
	require.NoError(t, ws.ReadJSON(&reply))
	assert.Equal(t, TypePong, reply.Type)
}

func TestHub_UnsupportedMessage(t *testing.T) {
	hub, url := startHub(t)
	ws := dial(t, hub, url, 1)

	require.NoError(t, ws.WriteJSON(Message{Type: "subscribe"}))

	var reply Message
	require.NoError(t, ws.ReadJSON(&reply))
	assert.Equal(t, TypeError, reply.Type)
	assert.Contains(t, string(reply.Data), "subscribe")
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub, url := startHub(t)
	a := dial(t, hub, url, 1)
	b := dial(t, hub, url, 2)

	msg, err := NewMessage(TypeLogData, map[string]int{"n": 7})
	require.NoError(t, err)
	assert.True(t, hub.Broadcast(msg))

	for _, ws := range []*websocket.Conn{a, b} {
		require.NoError(t, ws.SetReadDeadline(time.Now().Add(time.Second)))
		var got Message
		require.NoError(t, ws.ReadJSON(&got))
		assert.Equal(t, TypeLogData, got.Type)

		var payload map[string]int
		require.NoError(t, json.Unmarshal(got.Data, &payload))
		assert.Equal(t, 7, payload["n"])
	}
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	hub, url := startHub(t)
	ws := dial(t, hub, url, 1)

	require.NoError(t, ws.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_BroadcastAfterShutdown(t *testing.T) {
	hub := NewHub(context.Background(), nil)
	hub.Start()
	hub.Shutdown()

	assert.False(t, hub.Broadcast(&Message{Type: TypeLogData}))
}

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(TypePong, nil)
	require.NoError(t, err)
	assert.Nil(t, msg.Data)

	_, err = NewMessage(TypeLogData, func() {})
	assert.Error(t, err)
}
