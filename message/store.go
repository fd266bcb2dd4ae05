package message

import (
	"context"

	"github.com/convohq/chatstore/id"
)

// Store defines the persistence contract for messages.
type Store interface {
	// CreateMessage allocates a new unique message ID, stamps
	// CreatedAt to the current time, persists the message, and
	// refreshes the owning session's UpdatedAt to the same instant.
	// The owning session's existence is trusted, not validated, but
	// m.SessionID must be set; returns chatstore.ErrMissingSessionID
	// when it is the zero value.
	CreateMessage(ctx context.Context, m *Message) (*Message, error)

	// ListMessagesBySession returns all messages owned by the given
	// session, ordered by CreatedAt ascending (chronological), ties
	// broken by insertion order. Returns an empty slice when there are
	// none.
	ListMessagesBySession(ctx context.Context, sessionID id.SessionID) ([]*Message, error)

	// DeleteMessage removes the message if present. Deleting an absent
	// message is a no-op, not an error.
	DeleteMessage(ctx context.Context, messageID id.MessageID) error
}
