package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/convohq/chatstore"
	"github.com/convohq/chatstore/id"
	"github.com/convohq/chatstore/session"
)

// CreateSession allocates an ID, stamps timestamps, stores the session
// hash, and indexes it in the owner's sorted set scored by updated_at.
func (s *Store) CreateSession(ctx context.Context, sess *session.Session) (*session.Session, error) {
	if sess.UserID == "" {
		return nil, chatstore.ErrMissingUserID
	}
	now := time.Now().UTC()
	cp := *sess
	cp.ID = id.NewSessionID()
	cp.CreatedAt = now
	cp.UpdatedAt = now

	key := cp.ID.String()

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, sessionKey(key), sessionToMap(&cp))
	pipe.ZAdd(ctx, userSessionsKey(cp.UserID), goredis.Z{
		Score:  float64(now.UnixNano()),
		Member: key,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("chatstore/redis: create session: %w", err)
	}
	return &cp, nil
}

// GetSession retrieves a session by ID. Returns (nil, nil) when absent.
func (s *Store) GetSession(ctx context.Context, sessionID id.SessionID) (*session.Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(sessionID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("chatstore/redis: get session: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return sessionFromMap(fields)
}

// ListSessionsByUser returns the user's sessions, most recently active
// first: a reverse range over the updated_at-scored index. Dangling
// index entries are skipped defensively.
func (s *Store) ListSessionsByUser(ctx context.Context, userID string) ([]*session.Session, error) {
	keys, err := s.client.ZRevRange(ctx, userSessionsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("chatstore/redis: list sessions zrevrange: %w", err)
	}

	result := make([]*session.Session, 0, len(keys))
	for _, key := range keys {
		fields, getErr := s.client.HGetAll(ctx, sessionKey(key)).Result()
		if getErr != nil {
			return nil, fmt.Errorf("chatstore/redis: list sessions resolve %s: %w", key, getErr)
		}
		if len(fields) == 0 {
			continue
		}
		sess, mapErr := sessionFromMap(fields)
		if mapErr != nil {
			return nil, mapErr
		}
		result = append(result, sess)
	}
	return result, nil
}

// DeleteSession removes the session hash, every message it owns, and
// all index entries in one pipeline. No-op when the session is absent.
func (s *Store) DeleteSession(ctx context.Context, sessionID id.SessionID) error {
	key := sessionID.String()

	fields, err := s.client.HGetAll(ctx, sessionKey(key)).Result()
	if err != nil {
		return fmt.Errorf("chatstore/redis: delete session get: %w", err)
	}
	if len(fields) == 0 {
		return nil
	}
	userID := fields["user_id"]

	msgKeys, err := s.client.ZRange(ctx, sessionMessagesKey(key), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("chatstore/redis: delete session messages index: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, msgKey := range msgKeys {
		pipe.Del(ctx, messageKey(msgKey))
	}
	pipe.Del(ctx, sessionMessagesKey(key))
	pipe.Del(ctx, sessionKey(key))
	pipe.ZRem(ctx, userSessionsKey(userID), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("chatstore/redis: delete session: %w", err)
	}
	return nil
}

// sessionToMap flattens a session into hash fields.
func sessionToMap(sess *session.Session) map[string]any {
	return map[string]any{
		"id":         sess.ID.String(),
		"user_id":    sess.UserID,
		"title":      sess.Title,
		"created_at": formatTime(sess.CreatedAt),
		"updated_at": formatTime(sess.UpdatedAt),
	}
}

// sessionFromMap rebuilds a session from hash fields.
func sessionFromMap(fields map[string]string) (*session.Session, error) {
	parsedID, err := id.ParseSessionID(fields["id"])
	if err != nil {
		return nil, fmt.Errorf("chatstore/redis: parse session id %q: %w", fields["id"], err)
	}

	sess := &session.Session{
		ID:     parsedID,
		UserID: fields["user_id"],
		Title:  fields["title"],
	}
	sess.CreatedAt = parseTime(fields["created_at"])
	sess.UpdatedAt = parseTime(fields["updated_at"])
	return sess, nil
}
