package files

import ws "codeberg.org/algorave/relay/internal/websocket"

// the registry view the presence endpoint reads
type PresenceSource interface {
	Presence(fileID string) (ws.Presence, bool)
}
