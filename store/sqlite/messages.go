package sqlite

import (
	"context"
	"fmt"

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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("chatstore/sqlite: create message begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		cp.ID.String(), cp.SessionID.String(), cp.Role, cp.Content,
		timeToUnixMillis(cp.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("chatstore/sqlite: create message: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE chat_sessions SET updated_at = ? WHERE id = ?`,
		timeToUnixMillis(now), cp.SessionID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("chatstore/sqlite: touch session: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("chatstore/sqlite: create message commit: %w", err)
	}
	return &cp, nil
}

// ListMessagesBySession returns the session's messages in
// chronological order, ties broken by id (insertion order).
func (s *Store) ListMessagesBySession(ctx context.Context, sessionID id.SessionID) ([]*message.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, created_at
		FROM chat_messages
		WHERE session_id = ?
		ORDER BY created_at ASC, id ASC`,
		sessionID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("chatstore/sqlite: list messages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	messages := make([]*message.Message, 0)
	for rows.Next() {
		var (
			m         message.Message
			idStr     string
			sessStr   string
			createdAt int64
		)
		if err := rows.Scan(&idStr, &sessStr, &m.Role, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("chatstore/sqlite: scan message row: %w", err)
		}
		parsedID, parseErr := id.ParseMessageID(idStr)
		if parseErr != nil {
			return nil, fmt.Errorf("chatstore/sqlite: parse message id %q: %w", idStr, parseErr)
		}
		m.ID = parsedID
		parsedSess, parseErr := id.ParseSessionID(sessStr)
		if parseErr != nil {
			return nil, fmt.Errorf("chatstore/sqlite: parse session id %q: %w", sessStr, parseErr)
		}
		m.SessionID = parsedSess
		m.CreatedAt = unixMillisToTime(createdAt)
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chatstore/sqlite: iterate message rows: %w", err)
	}
	return messages, nil
}

// DeleteMessage removes the message. No-op when absent.
func (s *Store) DeleteMessage(ctx context.Context, messageID id.MessageID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM chat_messages WHERE id = ?`,
		messageID.String(),
	)
	if err != nil {
		return fmt.Errorf("chatstore/sqlite: delete message: %w", err)
	}
	return nil
}
