package websocket

import (
	"context"
	"slices"
	"sync"
	"time"

	"codeberg.org/algorave/relay/internal/logger"
	"codeberg.org/algorave/relay/internal/metrics"
)

// live collaboration state for one file. Every read-then-write runs under mu,
// including the fan-out, so members never observe a half-applied change.
type FileSession struct {
	fileID string

	mu sync.Mutex

	// members in join order; iteration order for users-list and re-election
	members []*Connection

	// nil or one of members
	leader *Connection

	// next version to stamp on a content message
	version uint64

	nextConnID uint64

	// set once members drains to zero; a closed session never reopens
	closed bool

	now  func() time.Time
	hook OperationHook
}

func newFileSession(fileID string, now func() time.Time, hook OperationHook) *FileSession {
	return &FileSession{
		fileID: fileID,
		now:    now,
		hook:   hook,
	}
}

// adds a member for userID unless one already exists
func (s *FileSession) join(userID string, canEdit bool, transport Transport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	if s.memberIndex(func(c *Connection) bool { return c.UserID == userID }) >= 0 {
		logger.Debug("duplicate join ignored",
			"file_id", s.fileID,
			"user_id", userID,
		)
		return nil
	}

	s.nextConnID++
	conn := &Connection{
		id:        s.nextConnID,
		UserID:    userID,
		CanEdit:   canEdit,
		transport: transport,
	}

	s.members = append(s.members, conn)
	metrics.ActiveConnections.Inc()

	logger.Info("member joined",
		"file_id", s.fileID,
		"user_id", userID,
		"can_edit", canEdit,
		"members", len(s.members),
	)

	if canEdit && s.leader == nil {
		s.promote(conn)
	}

	s.broadcastUsersList()

	return nil
}

// removes the member bound to transport; reports whether the session is now empty
func (s *FileSession) leave(userID string, transport Transport) (empty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return true
	}

	idx := s.memberIndex(func(c *Connection) bool {
		return c.transport == transport && c.UserID == userID
	})
	if idx < 0 {
		logger.Debug("leave for unknown member ignored",
			"file_id", s.fileID,
			"user_id", userID,
		)
		return false
	}

	removed := s.members[idx]
	s.members = slices.Delete(s.members, idx, idx+1)
	wasLeader := s.leader == removed
	metrics.ActiveConnections.Dec()

	logger.Info("member left",
		"file_id", s.fileID,
		"user_id", userID,
		"was_leader", wasLeader,
		"members", len(s.members),
	)

	if len(s.members) == 0 {
		s.leader = nil
		s.version = 0
		s.closed = true
		return true
	}

	if wasLeader {
		// first remaining member, regardless of edit rights
		s.promote(s.members[0])
	}

	s.broadcastUsersList()

	return false
}

// stamps and fans out one client frame from userID
func (s *FileSession) dispatch(userID string, raw []byte) {
	f, err := parseFrame(raw)
	if err != nil {
		metrics.FramesDropped.WithLabelValues(metrics.DropMalformed).Inc()
		logger.Debug("dropped malformed frame",
			"file_id", s.fileID,
			"user_id", userID,
			"error", err,
		)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		metrics.FramesDropped.WithLabelValues(metrics.DropNoSession).Inc()
		return
	}

	if s.memberIndex(func(c *Connection) bool { return c.UserID == userID }) < 0 {
		metrics.FramesDropped.WithLabelValues(metrics.DropNotMember).Inc()
		logger.Debug("dropped frame from non-member",
			"file_id", s.fileID,
			"user_id", userID,
		)
		return
	}

	at := s.now()
	f.stamp(s.fileID, userID, at)

	version := s.version
	if f.kind == TypeContent {
		f.setVersion(version)
	}

	encoded, err := f.encode()
	if err != nil {
		metrics.FramesDropped.WithLabelValues(metrics.DropMalformed).Inc()
		logger.Debug("failed to encode stamped frame",
			"file_id", s.fileID,
			"user_id", userID,
			"error", err,
		)
		return
	}

	if f.kind == TypeContent {
		s.version++
	}

	s.broadcast(encoded)
	metrics.MessagesRelayed.WithLabelValues(f.kind).Inc()

	if f.kind == TypeContent {
		s.fireHook(Operation{
			FileID:  s.fileID,
			UserID:  userID,
			Version: version,
			Time:    at.UTC(),
			Frame:   encoded,
		})
	}
}

// returns a point-in-time view of the session
func (s *FileSession) presence() Presence {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Presence{
		FileID:    s.fileID,
		Active:    !s.closed && len(s.members) > 0,
		UsersList: s.userIDs(),
		Version:   s.version,
	}

	if s.leader != nil {
		p.Leader = s.leader.UserID
	}

	return p
}

// returns every member transport (used for shutdown)
func (s *FileSession) transports() []Transport {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Transport, 0, len(s.members))
	for _, c := range s.members {
		out = append(out, c.transport)
	}

	return out
}

func (s *FileSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

func (s *FileSession) memberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.members)
}

// must be called with mu held
func (s *FileSession) promote(conn *Connection) {
	s.leader = conn
	metrics.LeaderElections.Inc()

	logger.Info("leader elected",
		"file_id", s.fileID,
		"user_id", conn.UserID,
		"connection_id", conn.id,
	)

	conn.deliver(s.fileID, newYouAreLeader(s.fileID))
}

// must be called with mu held
func (s *FileSession) broadcastUsersList() {
	s.broadcast(newUsersList(s.fileID, s.userIDs()))
}

// must be called with mu held
func (s *FileSession) broadcast(frame []byte) {
	for _, c := range s.members {
		c.deliver(s.fileID, frame)
	}
}

// must be called with mu held
func (s *FileSession) userIDs() []string {
	ids := make([]string, 0, len(s.members))
	for _, c := range s.members {
		ids = append(ids, c.UserID)
	}

	return ids
}

// must be called with mu held
func (s *FileSession) memberIndex(match func(*Connection) bool) int {
	return slices.IndexFunc(s.members, match)
}

// runs the hook off the broadcast path; failures and panics are logged only
func (s *FileSession) fireHook(op Operation) {
	if s.hook == nil {
		return
	}

	hook := s.hook

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("operation hook panicked",
					"file_id", op.FileID,
					"version", op.Version,
					"panic", r,
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
		defer cancel()

		ctx = logger.WithContext(ctx, logger.With(
			"file_id", op.FileID,
			"version", op.Version,
		))

		if err := hook.OnContent(ctx, op); err != nil {
			logger.ErrorErr(err, "operation hook failed",
				"file_id", op.FileID,
				"user_id", op.UserID,
				"version", op.Version,
			)
		}
	}()
}
