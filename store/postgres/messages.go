package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/convohq/chatstore"
	"github.com/convohq/chatstore/id"
	"github.com/convohq/chatstore/message"
)

// CreateMessage allocates an ID, stamps the timestamp, persists the
// message, and refreshes the owning session's updated_at to the same
// instant, both writes in one transaction.
func (s *Store) CreateMessage(ctx context.Context, m *message.Message) (*message.Message, error) {
	if m.SessionID.IsNil() {
		return nil, chatstore.ErrMissingSessionID
	}
	now := stampNow()
	cp := *m
	cp.ID = id.NewMessageID()
	cp.CreatedAt = now

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("chatstore/postgres: create message begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(ctx, `
		INSERT INTO chat_messages (id, session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		cp.ID.String(), cp.SessionID.String(), cp.Role, cp.Content, cp.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("chatstore/postgres: create message: %w", err)
	}

	if err = touchSession(ctx, tx, cp.SessionID.String(), now); err != nil {
		return nil, fmt.Errorf("chatstore/postgres: touch session: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("chatstore/postgres: create message commit: %w", err)
	}
	return &cp, nil
}

// ListMessagesBySession returns the session's messages in
// chronological order, ties broken by id (insertion order).
func (s *Store) ListMessagesBySession(ctx context.Context, sessionID id.SessionID) ([]*message.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, role, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC`,
		sessionID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("chatstore/postgres: list messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// DeleteMessage removes the message. No-op when absent.
func (s *Store) DeleteMessage(ctx context.Context, messageID id.MessageID) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM chat_messages WHERE id = $1`,
		messageID.String(),
	)
	if err != nil {
		return fmt.Errorf("chatstore/postgres: delete message: %w", err)
	}
	return nil
}

// scanMessage scans a single message row.
func scanMessage(row pgx.Row) (*message.Message, error) {
	var (
		m       message.Message
		idStr   string
		sessStr string
	)
	err := row.Scan(&idStr, &sessStr, &m.Role, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, err
	}

	parsedID, parseErr := id.ParseMessageID(idStr)
	if parseErr != nil {
		return nil, fmt.Errorf("chatstore/postgres: parse message id %q: %w", idStr, parseErr)
	}
	m.ID = parsedID

	parsedSess, parseErr := id.ParseSessionID(sessStr)
	if parseErr != nil {
		return nil, fmt.Errorf("chatstore/postgres: parse session id %q: %w", sessStr, parseErr)
	}
	m.SessionID = parsedSess

	return &m, nil
}

// collectMessages collects all messages from query rows.
func collectMessages(rows pgx.Rows) ([]*message.Message, error) {
	messages := make([]*message.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("chatstore/postgres: scan message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chatstore/postgres: iterate message rows: %w", err)
	}
	return messages, nil
}
