package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// resolves the user's access to a file from files and file_collaborators
func (s *PostgresStore) Lookup(ctx context.Context, fileID, userID string) (Access, error) {
	var isOwner bool
	var canEdit *bool

	err := s.db.QueryRow(ctx, queryLookupAccess, fileID, userID).Scan(&isOwner, &canEdit)
	if errors.Is(err, pgx.ErrNoRows) {
		return Access{}, ErrFileNotFound
	}

	if err != nil {
		return Access{}, fmt.Errorf("failed to look up file access: %w", err)
	}

	return resolve(isOwner, canEdit), nil
}

// adds or updates a collaborator row
func (s *PostgresStore) Grant(ctx context.Context, fileID, userID string, canEdit bool) error {
	if _, err := s.db.Exec(ctx, queryGrantAccess, fileID, userID, canEdit); err != nil {
		return fmt.Errorf("failed to grant file access: %w", err)
	}

	return nil
}

// maps one lookup row to an Access; canEdit is nil when no collaborator row matched
func resolve(isOwner bool, canEdit *bool) Access {
	if isOwner {
		return Access{CanView: true, CanEdit: true}
	}

	if canEdit == nil {
		return Access{}
	}

	return Access{CanView: true, CanEdit: *canEdit}
}
