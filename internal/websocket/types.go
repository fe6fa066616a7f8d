package websocket

import (
	"context"
	"errors"
	"time"
)

// message type constants for websocket communication
const (
	// is sent by an editor when the document changes; relayed with a version stamp
	TypeContent = "content"

	// is sent by an editor when its caret or selection moves
	TypeCursor = "cursor"

	// is sent to a connection when it becomes the file's leader
	TypeYouAreLeader = "you-are-leader"

	// is sent to every member whenever membership changes
	TypeUsersList = "users-list"
)

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maximum message size allowed from peer
	maxMessageSize = 512 * 1024 // 512 KB

	// outbound frames queued per client before it is considered dead
	sendBufferSize = 256

	// inbound frame rate per connection; bursts above this are dropped
	maxFramesPerSecond = 30
	maxFrameBurst      = 60
)

// upper bound for a single operation hook call
const hookTimeout = 5 * time.Second

// errors
var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendBufferFull   = errors.New("send buffer full")
	ErrSessionClosed    = errors.New("file session closed")
	ErrMalformedFrame   = errors.New("malformed frame")
)

// Transport is the outbound half of a member's socket. Send must not block;
// delivery is best-effort. Implementations must be comparable (pointer
// types) since membership is matched on transport identity.
type Transport interface {
	IsOpen() bool
	Send(frame []byte) error
}

// Operation is a stamped content edit handed to the OperationHook.
type Operation struct {
	FileID  string
	UserID  string
	Version uint64
	Time    time.Time
	Frame   []byte
}

// OperationHook receives every stamped content edit after it has been
// broadcast. It runs off the broadcast path; errors are logged only.
type OperationHook interface {
	OnContent(ctx context.Context, op Operation) error
}

// sent to a newly designated leader
type YouAreLeaderMessage struct {
	Type   string `json:"type"`
	FileID string `json:"fileId"`
}

// sent to all members on join and leave
type UsersListMessage struct {
	Type      string   `json:"type"`
	FileID    string   `json:"fileId"`
	UsersList []string `json:"usersList"`
}

// point-in-time view of one file session
type Presence struct {
	FileID    string   `json:"fileId"`
	Active    bool     `json:"active"`
	UsersList []string `json:"usersList"`
	Leader    string   `json:"leader,omitempty"`
	Version   uint64   `json:"version"`
}
