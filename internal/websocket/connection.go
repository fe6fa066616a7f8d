package websocket

import (
	"codeberg.org/algorave/relay/internal/logger"
)

// one member of a file session, bound to exactly one transport
type Connection struct {
	// per-session id assigned at join, in join order
	id uint64

	UserID  string
	CanEdit bool

	transport Transport
}

// delivers frame if the transport is open; failures are logged and swallowed
func (c *Connection) deliver(fileID string, frame []byte) {
	if !c.transport.IsOpen() {
		return
	}

	if err := c.transport.Send(frame); err != nil {
		logger.Debug("dropped frame for member",
			"file_id", fileID,
			"user_id", c.UserID,
			"connection_id", c.id,
			"error", err,
		)
	}
}
