// Package memory implements store.Store entirely in process memory.
//
// The backend keeps five structures: primary record maps for users,
// sessions, and messages keyed by ID, plus two secondary indexes
// mapping an owner to the ordered list of its children's IDs. The
// invariants the relational backends get from the database (key
// uniqueness, cascade on delete, listing order) are maintained by hand
// here, so every mutating operation updates the primary map and its
// secondary index under one lock acquisition.
//
// Safe for concurrent access. Intended for unit testing and
// development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/convohq/chatstore"
	"github.com/convohq/chatstore/id"
	"github.com/convohq/chatstore/message"
	"github.com/convohq/chatstore/session"
	"github.com/convohq/chatstore/user"
)

// Ensure Store implements store.Store at compile time.
// We can't import store here (import cycle), so we verify each entity
// store separately.
var (
	_ user.Store    = (*Store)(nil)
	_ session.Store = (*Store)(nil)
	_ message.Store = (*Store)(nil)
)

// Store is a fully in-memory implementation of store.Store.
type Store struct {
	mu sync.RWMutex

	users    map[string]*user.User
	sessions map[string]*session.Session
	messages map[string]*message.Message

	// Secondary indexes: owner ID → ordered child ID list. Append
	// order is insertion order, the fallback tiebreaker for listings.
	// These must never disagree with the primary maps; all writers
	// update both under the same lock acquisition.
	userSessions    map[string][]string
	sessionMessages map[string][]string
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		users:           make(map[string]*user.User),
		sessions:        make(map[string]*session.Session),
		messages:        make(map[string]*message.Message),
		userSessions:    make(map[string][]string),
		sessionMessages: make(map[string][]string),
	}
}

// ──────────────────────────────────────────────────
// Lifecycle — Migrate / Ping / Close
// ──────────────────────────────────────────────────

// Migrate is a no-op for the memory store.
func (m *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// User Store
// ──────────────────────────────────────────────────

// GetUser retrieves a user by ID. Returns (nil, nil) when absent.
func (m *Store) GetUser(_ context.Context, userID string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// UpsertUser inserts or replaces the user keyed by ID. CreatedAt is
// preserved from the first insert; UpdatedAt is set to the current time.
func (m *Store) UpsertUser(_ context.Context, u *user.User) (*user.User, error) {
	if u.ID == "" {
		return nil, chatstore.ErrMissingUserID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	cp := *u
	if existing, ok := m.users[u.ID]; ok {
		cp.CreatedAt = existing.CreatedAt
	} else {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now
	m.users[u.ID] = &cp

	out := cp
	return &out, nil
}

// ──────────────────────────────────────────────────
// Session Store
// ──────────────────────────────────────────────────

// CreateSession allocates an ID, stamps timestamps, and indexes the
// session under its owning user.
func (m *Store) CreateSession(_ context.Context, s *session.Session) (*session.Session, error) {
	if s.UserID == "" {
		return nil, chatstore.ErrMissingUserID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	cp := *s
	cp.ID = id.NewSessionID()
	cp.CreatedAt = now
	cp.UpdatedAt = now

	key := cp.ID.String()
	m.sessions[key] = &cp
	m.userSessions[cp.UserID] = append(m.userSessions[cp.UserID], key)

	out := cp
	return &out, nil
}

// GetSession retrieves a session by ID. Returns (nil, nil) when absent.
func (m *Store) GetSession(_ context.Context, sessionID id.SessionID) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID.String()]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// ListSessionsByUser returns the user's sessions, most recently
// active first.
func (m *Store) ListSessionsByUser(_ context.Context, userID string) ([]*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := m.userSessions[userID]
	result := make([]*session.Session, 0, len(keys))
	for _, key := range keys {
		s, ok := m.sessions[key]
		if !ok {
			// Dangling index entry; skip defensively.
			continue
		}
		cp := *s
		result = append(result, &cp)
	}

	// Stable sort over insertion order: equal UpdatedAt keeps the
	// older insertion first.
	sort.SliceStable(result, func(i, k int) bool {
		return result[i].UpdatedAt.After(result[k].UpdatedAt)
	})

	return result, nil
}

// DeleteSession removes the session, all messages it owns, and every
// index entry pointing at either. No-op when the session is absent.
func (m *Store) DeleteSession(_ context.Context, sessionID id.SessionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := sessionID.String()
	s, ok := m.sessions[key]
	if !ok {
		return nil
	}

	// Messages first, so a reader can never observe orphans.
	for _, msgKey := range m.sessionMessages[key] {
		delete(m.messages, msgKey)
	}
	delete(m.sessionMessages, key)

	delete(m.sessions, key)
	m.userSessions[s.UserID] = removeKey(m.userSessions[s.UserID], key)
	return nil
}

// ──────────────────────────────────────────────────
// Message Store
// ──────────────────────────────────────────────────

// CreateMessage allocates an ID, stamps the timestamp, indexes the
// message under its session, and refreshes the owning session's
// UpdatedAt to the same instant. All of it happens under one lock
// acquisition, so no reader sees the message without the touch.
func (m *Store) CreateMessage(_ context.Context, msg *message.Message) (*message.Message, error) {
	if msg.SessionID.IsNil() {
		return nil, chatstore.ErrMissingSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	cp := *msg
	cp.ID = id.NewMessageID()
	cp.CreatedAt = now

	key := cp.ID.String()
	sessKey := cp.SessionID.String()
	m.messages[key] = &cp
	m.sessionMessages[sessKey] = append(m.sessionMessages[sessKey], key)

	// The write path trusts the caller about session existence.
	if s, ok := m.sessions[sessKey]; ok {
		s.UpdatedAt = now
	}

	out := cp
	return &out, nil
}

// ListMessagesBySession returns the session's messages in
// chronological order.
func (m *Store) ListMessagesBySession(_ context.Context, sessionID id.SessionID) ([]*message.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := m.sessionMessages[sessionID.String()]
	result := make([]*message.Message, 0, len(keys))
	for _, key := range keys {
		msg, ok := m.messages[key]
		if !ok {
			continue
		}
		cp := *msg
		result = append(result, &cp)
	}

	sort.SliceStable(result, func(i, k int) bool {
		return result[i].CreatedAt.Before(result[k].CreatedAt)
	})

	return result, nil
}

// DeleteMessage removes the message and its index entry. No-op when
// absent.
func (m *Store) DeleteMessage(_ context.Context, messageID id.MessageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := messageID.String()
	msg, ok := m.messages[key]
	if !ok {
		return nil
	}

	delete(m.messages, key)
	sessKey := msg.SessionID.String()
	m.sessionMessages[sessKey] = removeKey(m.sessionMessages[sessKey], key)
	return nil
}

// removeKey removes the single matching entry from an index list,
// preserving the order of the rest.
func removeKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
