package message

import (
	"time"

	"github.com/convohq/chatstore/id"
)

// Role values commonly stored on messages. The store treats Role as
// opaque; these constants exist for callers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single chat message owned by exactly one session. The
// store allocates the ID and stamps CreatedAt at creation. Role and
// Content are opaque to the store.
type Message struct {
	ID        id.MessageID `json:"id"`
	SessionID id.SessionID `json:"session_id"`
	Role      string       `json:"role"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
}
