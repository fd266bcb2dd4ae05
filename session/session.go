package session

import (
	"github.com/convohq/chatstore"
	"github.com/convohq/chatstore/id"
)

// Session is a chat session owned by exactly one user. The store
// allocates the ID and stamps both timestamps at creation; UpdatedAt
// advances whenever a message lands in the session.
type Session struct {
	chatstore.Entity

	ID     id.SessionID `json:"id"`
	UserID string       `json:"user_id"`
	Title  string       `json:"title,omitempty"`
}
