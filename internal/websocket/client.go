package websocket

import (
	"sync"
	"time"

	"codeberg.org/algorave/relay/internal/logger"
	"codeberg.org/algorave/relay/internal/metrics"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// represents a websocket client connection; implements Transport
type Client struct {
	// unique identifier for this connection
	ID string

	// file this client is connected to
	FileID string

	// authenticated user id
	UserID string

	// edit capability, fixed for the lifetime of the connection
	CanEdit bool

	// IP address of the client (for logging)
	IPAddress string

	conn     *websocket.Conn
	registry *Registry

	// buffered channel of outbound frames
	send chan []byte

	// guards closed and the send channel
	mu     sync.RWMutex
	closed bool

	// inbound frame limiter
	limiter *rate.Limiter
}

// creates a new webSocket client connection
func NewClient(id, fileID, userID string, canEdit bool, ipAddress string, conn *websocket.Conn, registry *Registry) *Client {
	return &Client{
		ID:        id,
		FileID:    fileID,
		UserID:    userID,
		CanEdit:   canEdit,
		IPAddress: ipAddress,
		conn:      conn,
		registry:  registry,
		send:      make(chan []byte, sendBufferSize),
		limiter:   rate.NewLimiter(rate.Limit(maxFramesPerSecond), maxFrameBurst),
	}
}

// reads frames from the webSocket connection and hands them to the registry.
// Returning means the socket is gone; the client leaves its file session.
func (c *Client) ReadPump() {
	defer func() {
		c.registry.Leave(c.FileID, c.UserID, c)
		c.Close()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		messageType, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket error",
					"client_id", c.ID,
					"file_id", c.FileID,
					"error", err,
				)
			}

			break
		}

		if reason, ok := c.accept(messageType); !ok {
			metrics.FramesDropped.WithLabelValues(reason).Inc()
			logger.Debug("inbound frame dropped",
				"client_id", c.ID,
				"file_id", c.FileID,
				"reason", reason,
			)
			continue
		}

		c.registry.Dispatch(c.FileID, c.UserID, frame)
	}
}

// decides whether an inbound frame may reach Dispatch
func (c *Client) accept(messageType int) (string, bool) {
	if messageType != websocket.TextMessage {
		return metrics.DropMalformed, false
	}

	if !c.CanEdit {
		return metrics.DropReadOnly, false
	}

	if !c.limiter.Allow() {
		return metrics.DropRateLimited, false
	}

	return "", true
}

// writes queued frames to the webSocket connection, one JSON object per frame
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				// client closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck,gosec // G104: close message
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// queues a frame without blocking; a full buffer closes the client
func (c *Client) Send(frame []byte) error {
	c.mu.RLock()

	if c.closed {
		c.mu.RUnlock()
		return ErrConnectionClosed
	}

	select {
	case c.send <- frame:
		c.mu.RUnlock()
		return nil
	default:
	}

	c.mu.RUnlock()

	logger.Warn("client send buffer full, closing",
		"client_id", c.ID,
		"file_id", c.FileID,
	)

	c.Close()
	return ErrSendBufferFull
}

// reports whether frames can still be queued
func (c *Client) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return !c.closed
}

// closes the outbound channel; the write pump then closes the socket
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
