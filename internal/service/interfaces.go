// Package service defines the contracts shared between the ledger and its backends.
package service

import (
	"context"
	"time"
)

// StateStore persists opaque documents under namespaced keys.
//
// Load returns an error wrapping common.ErrNotFound when the key was never
// written. Implementations must be safe for concurrent use.
type StateStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DateRange represents a time period with start and end dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range, both ends inclusive.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
