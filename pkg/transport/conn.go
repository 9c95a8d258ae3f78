// Package transport implements the bidirectional per-match-namespace
// socket transport: an HTTP server upgrading to gorilla/websocket, with
// one room per match id.
package transport

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Conn wraps a single websocket connection. It satisfies
// session.Socket's Send method structurally, with no import dependency
// in either direction.
type Conn struct {
	ws *websocket.Conn

	writeMu sync.Mutex
}

// NewConn wraps an upgraded websocket connection.
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// outboundEnvelope is the {"name":..,"payload":..} shape every
// server-to-client message takes.
type outboundEnvelope struct {
	Name    string `json:"name"`
	Payload any    `json:"payload"`
}

// Send writes one named event to the socket. Safe for concurrent use:
// gorilla/websocket requires serialized writes, enforced here with a
// mutex per socket.
func (c *Conn) Send(name string, payload any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(outboundEnvelope{Name: name, Payload: payload})
}

// ReadMessage blocks for the next inbound message, decoding its generic
// envelope. The caller is responsible for dispatching by Name.
func (c *Conn) ReadMessage() (string, json.RawMessage, error) {
	var env struct {
		Name    string          `json:"name"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := c.ws.ReadJSON(&env); err != nil {
		return "", nil, err
	}
	return env.Name, env.Payload, nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}
