package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	opts := service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("busy")
			}
			return nil
		}, opts)

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return boom
		}, opts)

		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return &RetryableError{Err: errors.New("corrupt"), Retryable: false}
		}, opts)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("honors canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := WithRetry(ctx, func() error { return errors.New("busy") }, service.RetryOptions{
			MaxAttempts:  5,
			InitialDelay: time.Second,
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
