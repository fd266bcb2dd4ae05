package chatstore

import (
	"context"
	"log/slog"
)

// Option configures a Client.
type Option func(*Client) error

// Storer is the minimal store interface held by the Client.
// It covers lifecycle operations only. The full composite interface
// (store.Store) is defined in the store package, which the root
// package cannot import without a cycle. Implementations satisfy
// store.Store, which embeds all entity stores.
type Storer interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Client is the explicitly constructed, process-wide holder for the
// active store. Construct one at startup with New and pass it (or the
// store it wraps) to whatever needs persistence; nothing in this
// module reads implicit global state.
type Client struct {
	config Config
	logger *slog.Logger
	store  Storer
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.store == nil {
		return nil, ErrNoStore
	}
	return c, nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger { return c.logger }

// Store returns the active store.
func (c *Client) Store() Storer { return c.store }

// Config returns a copy of the client's configuration.
func (c *Client) Config() Config { return c.config }

// Migrate runs schema migrations on the active store.
func (c *Client) Migrate(ctx context.Context) error {
	return c.store.Migrate(ctx)
}

// Ping checks connectivity of the active store.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// Close releases the active store's resources.
func (c *Client) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// WithConfig sets the client configuration.
func WithConfig(cfg Config) Option {
	return func(c *Client) error {
		c.config = cfg
		return nil
	}
}

// WithLogger sets the structured logger for the client.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = l
		return nil
	}
}

// WithStore sets the persistence backend for the client.
// The store must implement Storer at minimum; typically it will be a
// store.Store which embeds all entity store interfaces.
func WithStore(s Storer) Option {
	return func(c *Client) error {
		c.store = s
		return nil
	}
}
