package ledger

import (
	"slices"
	"sync"
)

// Listener receives a copy of a collection after every change. Listeners run
// synchronously and must not mutate the store that called them.
type Listener[T any] func(items []T)

type observers[T any] struct {
	fns  map[int]Listener[T]
	next int
	// delivered is the newest generation handed to listeners. deliver
	// serializes deliveries so listeners see generations in order.
	delivered uint64
	mu        sync.Mutex
	deliver   sync.Mutex
}

func (o *observers[T]) subscribe(fn Listener[T]) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.fns == nil {
		o.fns = make(map[int]Listener[T])
	}
	id := o.next
	o.next++
	o.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.fns, id)
		})
	}
}

// notify delivers generation gen of the collection. A generation older than
// one already delivered is dropped, so a slow mutator cannot overwrite a
// newer snapshot. notify must be called without the owning store's lock held.
func (o *observers[T]) notify(gen uint64, items []T) {
	o.deliver.Lock()
	defer o.deliver.Unlock()

	if gen < o.delivered {
		return
	}
	o.delivered = gen

	o.mu.Lock()
	ids := make([]int, 0, len(o.fns))
	for id := range o.fns {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]Listener[T], 0, len(ids))
	for _, id := range ids {
		fns = append(fns, o.fns[id])
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(slices.Clone(items))
	}
}
