// Package redis implements store.Store using Redis for volatile,
// shared-nothing deployments. Entities are stored as Redis Hashes; the
// two secondary indexes (user → sessions, session → messages) are
// Sorted Sets scored by the ordering timestamp, so listing order falls
// out of ZRANGE. Multi-key mutations go through TxPipeline.
//
// Usage:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	s := redisstore.New(client)
//	if err := s.Ping(ctx); err != nil { ... }
package redis

import (
	"context"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/convohq/chatstore/message"
	"github.com/convohq/chatstore/session"
	"github.com/convohq/chatstore/user"
)

// Compile-time interface checks.
var (
	_ user.Store    = (*Store)(nil)
	_ session.Store = (*Store)(nil)
	_ message.Store = (*Store)(nil)
)

// Option configures the Store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store implements the composite store.Store interface backed by Redis.
type Store struct {
	client goredis.Cmdable
	owned  *goredis.Client
	logger *slog.Logger
}

// New creates a new Redis-backed store. The caller owns the Redis
// client lifecycle; Close is a no-op.
func New(client goredis.Cmdable, opts ...Option) *Store {
	s := &Store{client: client, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open creates a Redis-backed store with its own client connected to
// addr. The Store owns the client and closes it on Close.
func Open(addr string, opts ...Option) *Store {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	s := New(client, opts...)
	s.owned = client
	return s
}

// Client returns the underlying Redis client.
func (s *Store) Client() goredis.Cmdable { return s.client }

// Migrate is a no-op for Redis (schemaless).
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client if the Store owns it; otherwise it is a
// no-op and the caller keeps the client.
func (s *Store) Close() error {
	if s.owned != nil {
		return s.owned.Close()
	}
	return nil
}

// formatTime and parseTime fix the hash-field encoding of timestamps.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
