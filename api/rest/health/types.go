package health

type Response struct {
	Status            string `json:"status"`
	Service           string `json:"service"`
	Version           string `json:"version,omitempty"`
	ActiveSessions    int    `json:"active_sessions"`
	ActiveConnections int    `json:"active_connections"`
}

type PingResponse struct {
	Message string `json:"message"`
}

// the subset of the registry health reports on
type Counter interface {
	SessionCount() int
	ConnectionCount() int
}
