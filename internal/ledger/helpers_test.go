package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/Veraticus/spice-ledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNow is the start of every fake clock.
var testNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

// fakeClock advances one second per reading so timestamps are distinct.
type fakeClock struct {
	t  time.Time
	mu sync.Mutex
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type seqIDs struct {
	n  int
	mu sync.Mutex
}

func (s *seqIDs) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("gen-%d", s.n)
}

func testOptions(extra ...Option) []Option {
	clock := &fakeClock{t: testNow}
	ids := &seqIDs{}
	opts := []Option{
		WithClock(clock.Now),
		WithIDGenerator(ids.Next),
		WithSeedDefaults(false),
		WithRetry(service.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: time.Millisecond,
			MaxDelay:     time.Millisecond,
		}),
	}
	return append(opts, extra...)
}

// newTestLedger returns a loaded ledger over a FlakyState.
func newTestLedger(t *testing.T, extra ...Option) (*Ledger, *testutil.FlakyState) {
	t.Helper()
	state := testutil.NewFlakyState(nil)
	l := New(state, testOptions(extra...)...)
	require.NoError(t, l.Load(context.Background()))
	return l, state
}

// assertSameTransactions compares transactions field by field; decimals and
// times are compared by value, not representation.
func assertSameTransactions(t *testing.T, want, got []model.Transaction) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.ID, g.ID, "id at %d", i)
		assert.True(t, w.Amount.Equal(g.Amount), "amount of %s: %s != %s", w.ID, w.Amount, g.Amount)
		assert.True(t, w.Date.Equal(g.Date), "date of %s", w.ID)
		assert.True(t, w.CreatedAt.Equal(g.CreatedAt), "created_at of %s", w.ID)
		assert.True(t, w.UpdatedAt.Equal(g.UpdatedAt), "updated_at of %s", w.ID)
		assert.Equal(t, w.Category, g.Category, "category of %s", w.ID)
		assert.Equal(t, w.Description, g.Description, "description of %s", w.ID)
		assert.Equal(t, w.Image, g.Image, "image of %s", w.ID)
	}
}

func ids(txns []model.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.ID
	}
	return out
}
