package user

import "context"

// Store defines the persistence contract for users.
type Store interface {
	// GetUser retrieves a user by ID. Returns (nil, nil) when no user
	// has that ID; absence is not an error.
	GetUser(ctx context.Context, userID string) (*User, error)

	// UpsertUser inserts the user if its ID is unseen, otherwise
	// updates the existing record's profile fields. The returned record
	// keeps CreatedAt from the first insert and has UpdatedAt set to
	// the current time. Never fails for valid input; returns
	// chatstore.ErrMissingUserID when u.ID is empty.
	UpsertUser(ctx context.Context, u *User) (*User, error)
}
