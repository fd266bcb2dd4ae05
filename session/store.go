package session

import (
	"context"

	"github.com/convohq/chatstore/id"
)

// Store defines the persistence contract for chat sessions.
type Store interface {
	// CreateSession allocates a new unique session ID, stamps
	// CreatedAt and UpdatedAt to the current time, persists the
	// session, and returns the full record. Returns
	// chatstore.ErrMissingUserID when s.UserID is empty.
	CreateSession(ctx context.Context, s *Session) (*Session, error)

	// GetSession retrieves a session by ID. Returns (nil, nil) when no
	// session has that ID; absence is not an error.
	GetSession(ctx context.Context, sessionID id.SessionID) (*Session, error)

	// ListSessionsByUser returns all sessions owned by the given user,
	// ordered by UpdatedAt descending (most recently active first),
	// ties broken by insertion order. Returns an empty slice when the
	// user owns none.
	ListSessionsByUser(ctx context.Context, userID string) ([]*Session, error)

	// DeleteSession removes the session and, first, every message it
	// owns, so no orphaned messages are ever reachable. Deleting an
	// absent session is a no-op, not an error.
	DeleteSession(ctx context.Context, sessionID id.SessionID) error
}
