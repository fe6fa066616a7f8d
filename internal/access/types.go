package access

import (
	"context"
	"errors"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

// what a user may do with one file
type Access struct {
	CanView bool
	CanEdit bool
}

// answers per-file authorization questions for the websocket handshake
type Store interface {
	Lookup(ctx context.Context, fileID, userID string) (Access, error)
}
