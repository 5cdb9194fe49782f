package ws

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// Connection wraps a gorilla websocket connection with a write lock so the
// pipeline goroutine and the control handler can both send to the client.
type Connection struct {
	id     string
	socket *websocket.Conn
	mu     sync.Mutex
	closed atomic.Bool
}

// NewConnection creates a tracked websocket connection.
func NewConnection(id string, socket *websocket.Conn) *Connection {
	return &Connection{
		id:     id,
		socket: socket,
	}
}

// WriteText sends a JSON control or result message to the client.
func (c *Connection) WriteText(data []byte) error {
	return c.write(websocket.TextMessage, data)
}

// WriteBinary sends synthesized audio to the client.
func (c *Connection) WriteBinary(data []byte) error {
	return c.write(websocket.BinaryMessage, data)
}

func (c *Connection) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("connection %s: %w", c.id, ErrConnectionClosed)
	}
	return c.socket.WriteMessage(messageType, data)
}

// Read receives the next message from the client.
func (c *Connection) Read() (int, []byte, error) {
	return c.socket.ReadMessage()
}

// Close terminates the underlying websocket connection.
func (c *Connection) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.socket.Close()
}

// ID returns the connection identifier.
func (c *Connection) ID() string {
	return c.id
}

// IsClosed reports whether the connection has already been closed.
func (c *Connection) IsClosed() bool {
	return c.closed.Load()
}
