package websocket

import (
	"encoding/json"
	"fmt"
)

// Message types sent to and received from debug clients.
const (
	TypeLogData = "logdata"
	TypePing    = "ping"
	TypePong    = "pong"
	TypeError   = "error"
)

// Message is the envelope of every frame exchanged with a client.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewMessage marshals payload into a message of the given type.
func NewMessage(typ string, payload any) (*Message, error) {
	msg := &Message{Type: typ}
	if payload == nil {
		return msg, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", typ, err)
	}
	msg.Data = data
	return msg, nil
}
