package postgres

import (
	"context"
	"fmt"

	"github.com/convohq/chatstore"
	"github.com/convohq/chatstore/user"
)

// GetUser retrieves a user by ID. Returns (nil, nil) when absent.
func (s *Store) GetUser(ctx context.Context, userID string) (*user.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, first_name, last_name, profile_image_url, created_at, updated_at
		FROM users
		WHERE id = $1`,
		userID,
	)

	var u user.User
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("chatstore/postgres: get user: %w", err)
	}
	return &u, nil
}

// UpsertUser inserts the user or, on a primary-key collision, updates
// its profile fields. created_at is written only on first insert; the
// conflict branch leaves it untouched, so it is preserved across
// repeated upserts.
func (s *Store) UpsertUser(ctx context.Context, u *user.User) (*user.User, error) {
	if u.ID == "" {
		return nil, chatstore.ErrMissingUserID
	}
	now := stampNow()

	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			profile_image_url = EXCLUDED.profile_image_url,
			updated_at = EXCLUDED.updated_at
		RETURNING id, email, first_name, last_name, profile_image_url, created_at, updated_at`,
		u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImageURL, now,
	)

	var out user.User
	err := row.Scan(
		&out.ID, &out.Email, &out.FirstName, &out.LastName, &out.ProfileImageURL,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("chatstore/postgres: upsert user: %w", err)
	}
	return &out, nil
}
