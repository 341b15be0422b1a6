package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// Keys under which the two collections are persisted.
const (
	CategoriesKey   = "spice-ledger/categories"
	TransactionsKey = "spice-ledger/transactions"
)

// stateVersion is written into every envelope.
const stateVersion = 0

type envelope[S any] struct {
	State   S   `json:"state"`
	Version int `json:"version"`
}

type categoriesState struct {
	Categories []model.Category `json:"categories"`
}

type transactionsState struct {
	Transactions []model.Transaction `json:"transactions"`
}

// persister encodes one collection into its envelope and writes it.
// Flushes are serialized and a flush older than the last successful one is
// dropped, so a slow writer can never overwrite newer state.
type persister[S any] struct {
	state service.StateStore
	key   string
	retry service.RetryOptions
	saved uint64
	mu    sync.Mutex
}

func newPersister[S any](state service.StateStore, key string, retry service.RetryOptions) *persister[S] {
	return &persister[S]{state: state, key: key, retry: retry}
}

// load returns the stored state. found is false only when the key was never
// written; an unreadable or corrupt document counts as found.
func (p *persister[S]) load(ctx context.Context) (s S, found bool, err error) {
	data, err := p.state.Load(ctx, p.key)
	if errors.Is(err, common.ErrNotFound) {
		return s, false, nil
	}
	if err != nil {
		return s, true, fmt.Errorf("%w: read %s: %w", common.ErrPersistence, p.key, err)
	}

	var env envelope[S]
	if err := json.Unmarshal(data, &env); err != nil {
		return s, true, fmt.Errorf("%w: decode %s: %w", common.ErrPersistence, p.key, err)
	}
	return env.State, true, nil
}

// flush writes s as generation gen.
func (p *persister[S]) flush(ctx context.Context, gen uint64, s S) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen <= p.saved {
		return nil
	}

	data, err := json.Marshal(envelope[S]{State: s, Version: stateVersion})
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", common.ErrPersistence, p.key, err)
	}

	err = common.WithRetry(ctx, func() error {
		return p.state.Save(ctx, p.key, data)
	}, p.retry)
	if err != nil {
		return fmt.Errorf("%w: save %s: %w", common.ErrPersistence, p.key, err)
	}

	p.saved = gen
	return nil
}
