//go:build integration

package redis_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/convohq/chatstore"
	"github.com/convohq/chatstore/id"
	"github.com/convohq/chatstore/message"
	"github.com/convohq/chatstore/session"
	redisstore "github.com/convohq/chatstore/store/redis"
	"github.com/convohq/chatstore/user"
)

// setupTestStore starts a Redis container and returns a connected Store.
func setupTestStore(t *testing.T) *redisstore.Store {
	t.Helper()

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() {
		if termErr := container.Terminate(ctx); termErr != nil {
			t.Logf("terminate container: %v", termErr)
		}
	})

	connStr, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	s := redisstore.Open(strings.TrimPrefix(connStr, "redis://"))
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestRedisUserUpsert(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first, err := s.UpsertUser(ctx, &user.User{ID: "u1", Email: "a@example.com", FirstName: "Ada"})
	if err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	if first.CreatedAt.IsZero() || !first.UpdatedAt.Equal(first.CreatedAt) {
		t.Fatalf("timestamps not stamped together: %v / %v", first.CreatedAt, first.UpdatedAt)
	}

	time.Sleep(2 * time.Millisecond)
	second, err := s.UpsertUser(ctx, &user.User{ID: "u1", Email: "b@example.com", FirstName: "Ada"})
	if err != nil {
		t.Fatalf("UpsertUser (second): %v", err)
	}

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("CreatedAt changed across upserts: %v != %v", second.CreatedAt, first.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("UpdatedAt did not advance: %v <= %v", second.UpdatedAt, first.UpdatedAt)
	}

	got, err := s.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got == nil || got.Email != "b@example.com" {
		t.Fatalf("GetUser = %+v, want updated email", got)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) || !got.UpdatedAt.Equal(second.UpdatedAt) {
		t.Fatalf("timestamps did not round-trip: %+v", got)
	}

	got, err = s.GetUser(ctx, "missing")
	if err != nil {
		t.Fatalf("GetUser(absent): %v", err)
	}
	if got != nil {
		t.Fatalf("GetUser(absent) = %+v, want nil", got)
	}
}

func TestRedisSessionOrderAndTouch(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	s1, err := s.CreateSession(ctx, &session.Session{UserID: "u1", Title: "older"})
	if err != nil {
		t.Fatalf("CreateSession s1: %v", err)
	}
	if s1.ID.IsNil() || s1.ID.Prefix() != id.PrefixSession {
		t.Fatalf("bad session ID: %q", s1.ID.String())
	}
	time.Sleep(2 * time.Millisecond)
	s2, err := s.CreateSession(ctx, &session.Session{UserID: "u1", Title: "newer"})
	if err != nil {
		t.Fatalf("CreateSession s2: %v", err)
	}
	if _, err = s.CreateSession(ctx, &session.Session{UserID: "u2", Title: "other user"}); err != nil {
		t.Fatalf("CreateSession u2: %v", err)
	}

	got, err := s.ListSessionsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListSessionsByUser: %v", err)
	}
	if len(got) != 2 || got[0].ID.String() != s2.ID.String() || got[1].ID.String() != s1.ID.String() {
		t.Fatalf("unexpected session order: %+v", got)
	}

	// A message in s1 makes it most recent, and its timestamp becomes
	// s1's updated_at.
	time.Sleep(2 * time.Millisecond)
	m, err := s.CreateMessage(ctx, &message.Message{SessionID: s1.ID, Role: message.RoleUser, Content: "hi"})
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	touched, err := s.GetSession(ctx, s1.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if touched == nil {
		t.Fatal("GetSession returned nil for existing session")
	}
	if !touched.UpdatedAt.Equal(m.CreatedAt) {
		t.Fatalf("session updated_at = %v, want message timestamp %v", touched.UpdatedAt, m.CreatedAt)
	}

	got, err = s.ListSessionsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListSessionsByUser after touch: %v", err)
	}
	if got[0].ID.String() != s1.ID.String() {
		t.Fatalf("touched session not first: %+v", got[0])
	}

	// Users with no sessions get an empty slice.
	got, err = s.ListSessionsByUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("ListSessionsByUser(nobody): %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d sessions for unknown user, want 0", len(got))
	}
}

func TestRedisMessageOrdering(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx, &session.Session{UserID: "u1"})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	want := []string{"first", "second", "third"}
	for _, content := range want {
		if _, err = s.CreateMessage(ctx, &message.Message{SessionID: sess.ID, Content: content}); err != nil {
			t.Fatalf("CreateMessage %s: %v", content, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	msgs, err := s.ListMessagesBySession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("ListMessagesBySession: %v", err)
	}
	if len(msgs) != len(want) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(want))
	}
	for i, content := range want {
		if msgs[i].Content != content {
			t.Fatalf("message %d = %q, want %q", i, msgs[i].Content, content)
		}
	}

	// Unknown session lists empty, not error.
	msgs, err = s.ListMessagesBySession(ctx, id.NewSessionID())
	if err != nil {
		t.Fatalf("ListMessagesBySession(absent): %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("got %d messages for unknown session, want 0", len(msgs))
	}
}

func TestRedisCascadeDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx, &session.Session{UserID: "u1", Title: "doomed"})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	survivor, err := s.CreateSession(ctx, &session.Session{UserID: "u1", Title: "survivor"})
	if err != nil {
		t.Fatalf("CreateSession survivor: %v", err)
	}
	for _, content := range []string{"m1", "m2"} {
		if _, err = s.CreateMessage(ctx, &message.Message{SessionID: sess.ID, Content: content}); err != nil {
			t.Fatalf("CreateMessage %s: %v", content, err)
		}
	}

	if err = s.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("session survived delete: %+v", got)
	}

	msgs, err := s.ListMessagesBySession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("ListMessagesBySession after delete: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("got %d orphaned messages, want 0", len(msgs))
	}

	left, err := s.ListSessionsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListSessionsByUser: %v", err)
	}
	if len(left) != 1 || left[0].ID.String() != survivor.ID.String() {
		t.Fatalf("unrelated session disturbed: %+v", left)
	}

	// Absent deletes are silent no-ops.
	if err = s.DeleteSession(ctx, id.NewSessionID()); err != nil {
		t.Fatalf("DeleteSession(absent): %v", err)
	}
	if err = s.DeleteMessage(ctx, id.NewMessageID()); err != nil {
		t.Fatalf("DeleteMessage(absent): %v", err)
	}
}

func TestRedisMessageDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx, &session.Session{UserID: "u1"})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err = s.CreateMessage(ctx, &message.Message{SessionID: sess.ID, Content: "keep"}); err != nil {
		t.Fatalf("CreateMessage m1: %v", err)
	}
	m2, err := s.CreateMessage(ctx, &message.Message{SessionID: sess.ID, Content: "drop"})
	if err != nil {
		t.Fatalf("CreateMessage m2: %v", err)
	}

	if err = s.DeleteMessage(ctx, m2.ID); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}

	msgs, err := s.ListMessagesBySession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("ListMessagesBySession: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "keep" {
		t.Fatalf("messages after delete = %+v, want only %q", msgs, "keep")
	}
}

func TestRedisCreateRejectsMissingOwner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.UpsertUser(ctx, &user.User{Email: "no-id@example.com"}); !errors.Is(err, chatstore.ErrMissingUserID) {
		t.Fatalf("UpsertUser(empty ID) error = %v, want %v", err, chatstore.ErrMissingUserID)
	}
	if _, err := s.CreateSession(ctx, &session.Session{Title: "ownerless"}); !errors.Is(err, chatstore.ErrMissingUserID) {
		t.Fatalf("CreateSession(empty UserID) error = %v, want %v", err, chatstore.ErrMissingUserID)
	}
	if _, err := s.CreateMessage(ctx, &message.Message{Content: "orphan"}); !errors.Is(err, chatstore.ErrMissingSessionID) {
		t.Fatalf("CreateMessage(nil SessionID) error = %v, want %v", err, chatstore.ErrMissingSessionID)
	}
}
