package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

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

	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_sessions (id, user_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		cp.ID.String(), cp.UserID, cp.Title, cp.CreatedAt, cp.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("chatstore/postgres: create session: %w", err)
	}
	return &cp, nil
}

// GetSession retrieves a session by ID. Returns (nil, nil) when absent.
func (s *Store) GetSession(ctx context.Context, sessionID id.SessionID) (*session.Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE id = $1`,
		sessionID.String(),
	)

	sess, err := scanSession(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("chatstore/postgres: get session: %w", err)
	}
	return sess, nil
}

// ListSessionsByUser returns the user's sessions, most recently active
// first. Ties on updated_at break by id, which is insertion order
// because session IDs are K-sortable.
func (s *Store) ListSessionsByUser(ctx context.Context, userID string) ([]*session.Session, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("chatstore/postgres: list sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// DeleteSession removes the session and its messages in one
// transaction, messages first. No-op when the session is absent.
func (s *Store) DeleteSession(ctx context.Context, sessionID id.SessionID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("chatstore/postgres: delete session begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	key := sessionID.String()
	if _, err = tx.Exec(ctx, `DELETE FROM chat_messages WHERE session_id = $1`, key); err != nil {
		return fmt.Errorf("chatstore/postgres: delete session messages: %w", err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1`, key); err != nil {
		return fmt.Errorf("chatstore/postgres: delete session: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("chatstore/postgres: delete session commit: %w", err)
	}
	return nil
}

// touchSession refreshes a session's updated_at inside a transaction.
func touchSession(ctx context.Context, tx pgx.Tx, sessionID string, at time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE chat_sessions SET updated_at = $2 WHERE id = $1`,
		sessionID, at,
	)
	return err
}

// scanSession scans a single session row.
func scanSession(row pgx.Row) (*session.Session, error) {
	var (
		sess  session.Session
		idStr string
	)
	err := row.Scan(&idStr, &sess.UserID, &sess.Title, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, err
	}

	parsedID, parseErr := id.ParseSessionID(idStr)
	if parseErr != nil {
		return nil, fmt.Errorf("chatstore/postgres: parse session id %q: %w", idStr, parseErr)
	}
	sess.ID = parsedID

	return &sess, nil
}

// collectSessions collects all sessions from query rows.
func collectSessions(rows pgx.Rows) ([]*session.Session, error) {
	sessions := make([]*session.Session, 0)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("chatstore/postgres: scan session row: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chatstore/postgres: iterate session rows: %w", err)
	}
	return sessions, nil
}
