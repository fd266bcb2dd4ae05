package sqlite

import (
	"context"
	"fmt"

	"github.com/convohq/chatstore"
	"github.com/convohq/chatstore/id"
	"github.com/convohq/chatstore/session"
)

// CreateSession allocates an ID, stamps timestamps, and persists the
// session.
func (s *Store) CreateSession(ctx context.Context, sess *session.Session) (*session.Session, error) {
	if sess.UserID == "" {
		return nil, chatstore.ErrMissingUserID
	}
	now := stampNow()
	cp := *sess
	cp.ID = id.NewSessionID()
	cp.CreatedAt = now
	cp.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (id, user_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		cp.ID.String(), cp.UserID, cp.Title,
		timeToUnixMillis(cp.CreatedAt), timeToUnixMillis(cp.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("chatstore/sqlite: create session: %w", err)
	}
	return &cp, nil
}

// GetSession retrieves a session by ID. Returns (nil, nil) when absent.
func (s *Store) GetSession(ctx context.Context, sessionID id.SessionID) (*session.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE id = ?`,
		sessionID.String(),
	)

	var (
		sess      session.Session
		idStr     string
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&idStr, &sess.UserID, &sess.Title, &createdAt, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("chatstore/sqlite: get session: %w", err)
	}

	parsedID, parseErr := id.ParseSessionID(idStr)
	if parseErr != nil {
		return nil, fmt.Errorf("chatstore/sqlite: parse session id %q: %w", idStr, parseErr)
	}
	sess.ID = parsedID
	sess.CreatedAt = unixMillisToTime(createdAt)
	sess.UpdatedAt = unixMillisToTime(updatedAt)
	return &sess, nil
}

// ListSessionsByUser returns the user's sessions, most recently active
// first. Ties on updated_at break by id, which is insertion order
// because session IDs are K-sortable.
func (s *Store) ListSessionsByUser(ctx context.Context, userID string) ([]*session.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE user_id = ?
		ORDER BY updated_at DESC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("chatstore/sqlite: list sessions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	sessions := make([]*session.Session, 0)
	for rows.Next() {
		var (
			sess      session.Session
			idStr     string
			createdAt int64
			updatedAt int64
		)
		if err := rows.Scan(&idStr, &sess.UserID, &sess.Title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("chatstore/sqlite: scan session row: %w", err)
		}
		parsedID, parseErr := id.ParseSessionID(idStr)
		if parseErr != nil {
			return nil, fmt.Errorf("chatstore/sqlite: parse session id %q: %w", idStr, parseErr)
		}
		sess.ID = parsedID
		sess.CreatedAt = unixMillisToTime(createdAt)
		sess.UpdatedAt = unixMillisToTime(updatedAt)
		sessions = append(sessions, &sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chatstore/sqlite: iterate session rows: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes the session and its messages in one
// transaction, messages first. No-op when the session is absent.
func (s *Store) DeleteSession(ctx context.Context, sessionID id.SessionID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("chatstore/sqlite: delete session begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	key := sessionID.String()
	if _, err = tx.ExecContext(ctx, `DELETE FROM chat_messages WHERE session_id = ?`, key); err != nil {
		return fmt.Errorf("chatstore/sqlite: delete session messages: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = ?`, key); err != nil {
		return fmt.Errorf("chatstore/sqlite: delete session: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("chatstore/sqlite: delete session commit: %w", err)
	}
	return nil
}
