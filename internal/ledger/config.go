// Package ledger owns the category and transaction collections and keeps
// them in sync with a persistent StateStore.
package ledger

import (
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/google/uuid"
)

// Config holds store configuration.
type Config struct {
	Now               func() time.Time
	NewID             func() string
	DefaultCategories []model.Category
	Retry             service.RetryOptions
	SeedDefaults      bool
}

// Option is a functional option for configuring the stores.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Now:               time.Now,
		NewID:             uuid.NewString,
		DefaultCategories: model.DefaultCategories(),
		SeedDefaults:      true,
		Retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 50 * time.Millisecond,
			MaxDelay:     time.Second,
			Multiplier:   2.0,
		},
	}
}

func newConfig(opts []Option) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithClock sets the time source used for timestamps and date validation.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		if now != nil {
			c.Now = now
		}
	}
}

// WithIDGenerator sets the generator for ids the stores assign.
func WithIDGenerator(gen func() string) Option {
	return func(c *Config) {
		if gen != nil {
			c.NewID = gen
		}
	}
}

// WithRetry configures how saves are retried.
func WithRetry(opts service.RetryOptions) Option {
	return func(c *Config) {
		c.Retry = opts
	}
}

// WithSeedDefaults controls first-run seeding of the starter categories.
func WithSeedDefaults(enabled bool) Option {
	return func(c *Config) {
		c.SeedDefaults = enabled
	}
}

// WithDefaultCategories replaces the starter category set.
func WithDefaultCategories(categories []model.Category) Option {
	return func(c *Config) {
		c.DefaultCategories = categories
	}
}
