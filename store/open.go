package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/convohq/chatstore"
	"github.com/convohq/chatstore/store/memory"
	"github.com/convohq/chatstore/store/postgres"
	redisstore "github.com/convohq/chatstore/store/redis"
	"github.com/convohq/chatstore/store/sqlite"
)

// OpenOption configures Open.
type OpenOption func(*openSettings)

type openSettings struct {
	logger *slog.Logger
}

// WithLogger sets the logger passed down to the opened backend.
func WithLogger(l *slog.Logger) OpenOption {
	return func(o *openSettings) {
		o.logger = l
	}
}

// Open constructs the store implementation selected by cfg.Driver.
// This is the single point where the active backend is chosen; call it
// once at process start and inject the result wherever persistence is
// needed.
func Open(ctx context.Context, cfg chatstore.Config, opts ...OpenOption) (Store, error) {
	settings := &openSettings{logger: slog.Default()}
	for _, opt := range opts {
		opt(settings)
	}

	switch cfg.Driver {
	case chatstore.DriverMemory:
		return memory.New(), nil
	case chatstore.DriverPostgres:
		return postgres.New(ctx, cfg.PostgresURL, postgres.WithLogger(settings.logger))
	case chatstore.DriverSQLite:
		return sqlite.Open(cfg.SQLitePath, sqlite.WithLogger(settings.logger))
	case chatstore.DriverRedis:
		return redisstore.Open(cfg.RedisAddr, redisstore.WithLogger(settings.logger)), nil
	default:
		return nil, fmt.Errorf("%w: %q", chatstore.ErrUnknownDriver, cfg.Driver)
	}
}
