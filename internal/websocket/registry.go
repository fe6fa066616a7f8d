package websocket

import (
	"sync"
	"time"

	"codeberg.org/algorave/relay/internal/logger"
	"codeberg.org/algorave/relay/internal/metrics"
)

// maps file ids to live file sessions. mu guards only the map; each session
// has its own lock, so files never contend with each other. Lock order is
// registry before session; nothing takes the registry lock while holding a
// session lock.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*FileSession

	now  func() time.Time
	hook OperationHook
}

// configures a Registry
type Option func(*Registry)

// sets the hook that receives every stamped content edit
func WithOperationHook(hook OperationHook) Option {
	return func(r *Registry) {
		r.hook = hook
	}
}

// overrides the clock used for message timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*FileSession),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// adds userID to fileID's session, creating the session on first join.
// Authorization is the caller's responsibility.
func (r *Registry) Join(fileID, userID string, canEdit bool, transport Transport) {
	for {
		session := r.getOrCreate(fileID)

		// the session may have drained between lookup and join; retry against its replacement
		if err := session.join(userID, canEdit, transport); err == nil {
			return
		}
	}
}

// removes the member bound to transport; drops the session once it is empty
func (r *Registry) Leave(fileID, userID string, transport Transport) {
	r.mu.Lock()
	session, exists := r.sessions[fileID]
	r.mu.Unlock()

	if !exists {
		return
	}

	if !session.leave(userID, transport) {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// a concurrent Join may already have replaced the closed session
	if r.sessions[fileID] == session {
		delete(r.sessions, fileID)
		metrics.ActiveSessions.Dec()

		logger.Info("file session has no more members, removed",
			"file_id", fileID,
		)
	}
}

// stamps and relays one inbound frame from userID. Callers must only pass
// frames from connections joined with canEdit; anything unparseable is dropped.
func (r *Registry) Dispatch(fileID, userID string, raw []byte) {
	r.mu.Lock()
	session, exists := r.sessions[fileID]
	r.mu.Unlock()

	if !exists {
		metrics.FramesDropped.WithLabelValues(metrics.DropNoSession).Inc()
		logger.Debug("frame for unknown file session dropped",
			"file_id", fileID,
			"user_id", userID,
		)
		return
	}

	session.dispatch(userID, raw)
}

// returns the current presence for fileID; ok is false when no session exists
func (r *Registry) Presence(fileID string) (Presence, bool) {
	r.mu.Lock()
	session, exists := r.sessions[fileID]
	r.mu.Unlock()

	if !exists {
		return Presence{FileID: fileID, UsersList: []string{}}, false
	}

	p := session.presence()
	return p, p.Active
}

// returns the number of live file sessions
func (r *Registry) SessionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// returns the number of members across all sessions
func (r *Registry) ConnectionCount() int {
	total := 0
	for _, s := range r.snapshot() {
		total += s.memberCount()
	}

	return total
}

// closes every member transport that supports it. Sessions are torn down
// by the Leave calls the closed transports trigger.
func (r *Registry) Shutdown() {
	logger.Info("closing all websocket connections")

	for _, s := range r.snapshot() {
		for _, t := range s.transports() {
			if closer, ok := t.(interface{ Close() }); ok {
				closer.Close()
			}
		}
	}
}

func (r *Registry) getOrCreate(fileID string) *FileSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, exists := r.sessions[fileID]; exists && !session.isClosed() {
		return session
	}

	session := newFileSession(fileID, r.now, r.hook)
	if _, replaced := r.sessions[fileID]; !replaced {
		metrics.ActiveSessions.Inc()
	}

	r.sessions[fileID] = session

	logger.Info("file session created",
		"file_id", fileID,
	)

	return session
}

func (r *Registry) snapshot() []*FileSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*FileSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}

	return out
}
