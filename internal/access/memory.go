package access

import (
	"context"
	"sync"
)

// in-memory Store for tests and single-node development
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string]map[string]Access
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string]map[string]Access)}
}

// registers fileID with no collaborators
func (s *MemoryStore) AddFile(fileID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.files[fileID] == nil {
		s.files[fileID] = make(map[string]Access)
	}
}

// sets a user's access, registering the file if needed
func (s *MemoryStore) Grant(fileID, userID string, canEdit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.files[fileID] == nil {
		s.files[fileID] = make(map[string]Access)
	}

	s.files[fileID][userID] = Access{CanView: true, CanEdit: canEdit}
}

func (s *MemoryStore) Lookup(_ context.Context, fileID, userID string) (Access, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, exists := s.files[fileID]
	if !exists {
		return Access{}, ErrFileNotFound
	}

	return users[userID], nil
}

// grants every authenticated user edit access to every file
type OpenStore struct{}

func (OpenStore) Lookup(context.Context, string, string) (Access, error) {
	return Access{CanView: true, CanEdit: true}, nil
}
