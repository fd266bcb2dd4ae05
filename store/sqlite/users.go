package sqlite

import (
	"context"
	"fmt"

	"github.com/convohq/chatstore"
	"github.com/convohq/chatstore/user"
)

// GetUser retrieves a user by ID. Returns (nil, nil) when absent.
func (s *Store) GetUser(ctx context.Context, userID string) (*user.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, profile_image_url, created_at, updated_at
		FROM users
		WHERE id = ?`,
		userID,
	)

	var (
		u         user.User
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("chatstore/sqlite: get user: %w", err)
	}

	u.CreatedAt = unixMillisToTime(createdAt)
	u.UpdatedAt = unixMillisToTime(updatedAt)
	return &u, nil
}

// UpsertUser inserts the user or, on a primary-key collision, updates
// its profile fields. The conflict branch leaves created_at untouched.
func (s *Store) UpsertUser(ctx context.Context, u *user.User) (*user.User, error) {
	if u.ID == "" {
		return nil, chatstore.ErrMissingUserID
	}
	now := stampNow()

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			profile_image_url = excluded.profile_image_url,
			updated_at = excluded.updated_at
		RETURNING id, email, first_name, last_name, profile_image_url, created_at, updated_at`,
		u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImageURL,
		timeToUnixMillis(now), timeToUnixMillis(now),
	)

	var (
		out       user.User
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(
		&out.ID, &out.Email, &out.FirstName, &out.LastName, &out.ProfileImageURL,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("chatstore/sqlite: upsert user: %w", err)
	}

	out.CreatedAt = unixMillisToTime(createdAt)
	out.UpdatedAt = unixMillisToTime(updatedAt)
	return &out, nil
}
