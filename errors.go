package chatstore

import "errors"

var (
	// Store errors.
	ErrNoStore         = errors.New("chatstore: no store configured")
	ErrUnknownDriver   = errors.New("chatstore: unknown store driver")
	ErrMigrationFailed = errors.New("chatstore: migration failed")

	// Input errors.
	ErrMissingUserID    = errors.New("chatstore: user id is required")
	ErrMissingSessionID = errors.New("chatstore: session id is required")
)
