package store

import (
	"context"

	"github.com/convohq/chatstore/message"
	"github.com/convohq/chatstore/session"
	"github.com/convohq/chatstore/user"
)

// Store is the aggregate persistence interface.
// Each entity store is a composable interface; a single backend
// (postgres, sqlite, redis, memory) implements all of them. Callers
// depend on this abstraction only and never reach into a backend.
type Store interface {
	user.Store
	session.Store
	message.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
