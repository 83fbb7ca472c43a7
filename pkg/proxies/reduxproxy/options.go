package reduxproxy

import "github.com/vango-dev/cosmos/pkg/store"

// DefaultFixtureKey is the fixture key holding the initial store state.
const DefaultFixtureKey = "reduxState"

// Config is the resolved, immutable configuration of a store proxy.
type Config struct {
	// FixtureKey is read for the initial state and used to tag updates.
	// Default: "reduxState".
	FixtureKey string

	// CreateStore builds a store from the initial state. Required whenever
	// a store must be created.
	CreateStore func(initial any) store.Store

	// AlwaysCreateStore creates a store even when the fixture has no
	// state under FixtureKey.
	AlwaysCreateStore bool

	// DisableLocalState asks downstream local-state proxies to stand down
	// while a store is active. Default: true.
	DisableLocalState bool
}

// Option configures a store proxy.
type Option func(*Config)

// WithFixtureKey sets the fixture key.
func WithFixtureKey(key string) Option {
	return func(c *Config) {
		c.FixtureKey = key
	}
}

// WithCreateStore sets the store factory.
func WithCreateStore(fn func(initial any) store.Store) Option {
	return func(c *Config) {
		c.CreateStore = fn
	}
}

// WithAlwaysCreateStore forces store creation.
func WithAlwaysCreateStore(always bool) Option {
	return func(c *Config) {
		c.AlwaysCreateStore = always
	}
}

// WithDisableLocalState sets whether local state is disabled while a store
// is active.
func WithDisableLocalState(disable bool) Option {
	return func(c *Config) {
		c.DisableLocalState = disable
	}
}

// WithConfig replaces every field with cfg. An empty FixtureKey keeps the
// default.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		key := c.FixtureKey
		*c = cfg
		if c.FixtureKey == "" {
			c.FixtureKey = key
		}
	}
}

func defaultConfig() Config {
	return Config{
		FixtureKey:        DefaultFixtureKey,
		AlwaysCreateStore: false,
		DisableLocalState: true,
	}
}

// Resolve merges opts over the defaults.
func Resolve(opts ...Option) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.FixtureKey == "" {
		cfg.FixtureKey = DefaultFixtureKey
	}
	return cfg
}
