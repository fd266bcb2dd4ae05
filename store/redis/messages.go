package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/convohq/chatstore"
	"github.com/convohq/chatstore/id"
	"github.com/convohq/chatstore/message"
)

// CreateMessage allocates an ID, stamps the timestamp, stores the
// message hash, indexes it under its session, and refreshes the owning
// session's updated_at plus its score in the owner's session index,
// all in one pipeline.
func (s *Store) CreateMessage(ctx context.Context, m *message.Message) (*message.Message, error) {
	if m.SessionID.IsNil() {
		return nil, chatstore.ErrMissingSessionID
	}
	now := time.Now().UTC()
	cp := *m
	cp.ID = id.NewMessageID()
	cp.CreatedAt = now

	key := cp.ID.String()
	sessKey := cp.SessionID.String()

	// The write path trusts the caller about session existence; the
	// owner is looked up only to re-rank the user's session index.
	userID, err := s.client.HGet(ctx, sessionKey(sessKey), "user_id").Result()
	sessionExists := true
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("chatstore/redis: create message get session: %w", err)
		}
		sessionExists = false
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, messageKey(key), messageToMap(&cp))
	pipe.ZAdd(ctx, sessionMessagesKey(sessKey), goredis.Z{
		Score:  float64(now.UnixNano()),
		Member: key,
	})
	if sessionExists {
		pipe.HSet(ctx, sessionKey(sessKey), "updated_at", formatTime(now))
		pipe.ZAdd(ctx, userSessionsKey(userID), goredis.Z{
			Score:  float64(now.UnixNano()),
			Member: sessKey,
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("chatstore/redis: create message: %w", err)
	}
	return &cp, nil
}

// ListMessagesBySession returns the session's messages in
// chronological order: a forward range over the created_at-scored
// index. Dangling index entries are skipped defensively.
func (s *Store) ListMessagesBySession(ctx context.Context, sessionID id.SessionID) ([]*message.Message, error) {
	keys, err := s.client.ZRange(ctx, sessionMessagesKey(sessionID.String()), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("chatstore/redis: list messages zrange: %w", err)
	}

	result := make([]*message.Message, 0, len(keys))
	for _, key := range keys {
		fields, getErr := s.client.HGetAll(ctx, messageKey(key)).Result()
		if getErr != nil {
			return nil, fmt.Errorf("chatstore/redis: list messages resolve %s: %w", key, getErr)
		}
		if len(fields) == 0 {
			continue
		}
		m, mapErr := messageFromMap(fields)
		if mapErr != nil {
			return nil, mapErr
		}
		result = append(result, m)
	}
	return result, nil
}

// DeleteMessage removes the message hash and its index entry. No-op
// when absent.
func (s *Store) DeleteMessage(ctx context.Context, messageID id.MessageID) error {
	key := messageID.String()

	sessKey, err := s.client.HGet(ctx, messageKey(key), "session_id").Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		return fmt.Errorf("chatstore/redis: delete message get session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, messageKey(key))
	pipe.ZRem(ctx, sessionMessagesKey(sessKey), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("chatstore/redis: delete message: %w", err)
	}
	return nil
}

// messageToMap flattens a message into hash fields.
func messageToMap(m *message.Message) map[string]any {
	return map[string]any{
		"id":         m.ID.String(),
		"session_id": m.SessionID.String(),
		"role":       m.Role,
		"content":    m.Content,
		"created_at": formatTime(m.CreatedAt),
	}
}

// messageFromMap rebuilds a message from hash fields.
func messageFromMap(fields map[string]string) (*message.Message, error) {
	parsedID, err := id.ParseMessageID(fields["id"])
	if err != nil {
		return nil, fmt.Errorf("chatstore/redis: parse message id %q: %w", fields["id"], err)
	}
	parsedSess, err := id.ParseSessionID(fields["session_id"])
	if err != nil {
		return nil, fmt.Errorf("chatstore/redis: parse session id %q: %w", fields["session_id"], err)
	}

	m := &message.Message{
		ID:        parsedID,
		SessionID: parsedSess,
		Role:      fields["role"],
		Content:   fields["content"],
	}
	m.CreatedAt = parseTime(fields["created_at"])
	return m, nil
}
