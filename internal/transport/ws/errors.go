package ws

import "errors"

var (
	// ErrSessionShutdown is emitted when the server requests a session shutdown.
	ErrSessionShutdown = errors.New("websocket session shutdown")
	// ErrConnectionClosed indicates a write on an already closed connection.
	ErrConnectionClosed = errors.New("websocket connection closed")
)
