package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/convohq/chatstore"
	"github.com/convohq/chatstore/user"
)

// GetUser retrieves a user by ID. Returns (nil, nil) when absent.
func (s *Store) GetUser(ctx context.Context, userID string) (*user.User, error) {
	fields, err := s.client.HGetAll(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("chatstore/redis: get user: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return userFromMap(fields), nil
}

// UpsertUser inserts or replaces the user keyed by ID. The stored
// created_at is read back first so it survives repeated upserts.
func (s *Store) UpsertUser(ctx context.Context, u *user.User) (*user.User, error) {
	if u.ID == "" {
		return nil, chatstore.ErrMissingUserID
	}
	now := time.Now().UTC()
	key := userKey(u.ID)

	createdAt := now
	stored, err := s.client.HGet(ctx, key, "created_at").Result()
	switch {
	case err == nil:
		if t := parseTime(stored); !t.IsZero() {
			createdAt = t
		}
	case errors.Is(err, goredis.Nil):
		// First insert.
	default:
		return nil, fmt.Errorf("chatstore/redis: upsert user read created_at: %w", err)
	}

	cp := *u
	cp.CreatedAt = createdAt
	cp.UpdatedAt = now

	if err := s.client.HSet(ctx, key, userToMap(&cp)).Err(); err != nil {
		return nil, fmt.Errorf("chatstore/redis: upsert user: %w", err)
	}
	return &cp, nil
}

// userToMap flattens a user into hash fields.
func userToMap(u *user.User) map[string]any {
	return map[string]any{
		"id":                u.ID,
		"email":             u.Email,
		"first_name":        u.FirstName,
		"last_name":         u.LastName,
		"profile_image_url": u.ProfileImageURL,
		"created_at":        formatTime(u.CreatedAt),
		"updated_at":        formatTime(u.UpdatedAt),
	}
}

// userFromMap rebuilds a user from hash fields.
func userFromMap(fields map[string]string) *user.User {
	u := &user.User{
		ID:              fields["id"],
		Email:           fields["email"],
		FirstName:       fields["first_name"],
		LastName:        fields["last_name"],
		ProfileImageURL: fields["profile_image_url"],
	}
	u.CreatedAt = parseTime(fields["created_at"])
	u.UpdatedAt = parseTime(fields["updated_at"])
	return u
}
