package reactive

import (
	"context"
	"sync"

	"github.com/hookless-go/hookless"
)

// Var is a broadcast value cell modeled on the application-state atom
// pattern: a single value that can be read and subscribed to, where
// subscribers only ever care about the latest value and a slow subscriber
// may miss intermediate updates. Unlike a full reactive variable, Var does
// no dependency tracking of its own; a handler built with Retry reads it
// and, if not yet ready, waits on Changed before trying again.
type Var[T any] struct {
	mu     sync.RWMutex
	value  T
	ready  bool
	subs   map[int64]chan struct{}
	nextID int64
}

// NewVar returns an empty, not-yet-ready Var.
func NewVar[T any]() *Var[T] {
	return &Var[T]{subs: make(map[int64]chan struct{})}
}

// Get returns the current value and whether Set has ever been called.
func (v *Var[T]) Get() (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value, v.ready
}

// Set stores value and wakes every current subscriber. Delivery is
// non-blocking and latest-wins: a subscriber that hasn't drained its
// previous wake-up simply sees one fewer wake-up, not a queue of them.
func (v *Var[T]) Set(value T) {
	v.mu.Lock()
	v.value = value
	v.ready = true
	wake := make([]chan struct{}, 0, len(v.subs))
	for _, ch := range v.subs {
		wake = append(wake, ch)
	}
	v.mu.Unlock()

	for _, ch := range wake {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Changed returns a channel that receives once after the next Set call,
// and a cancel func that must be called once the caller is done waiting.
func (v *Var[T]) Changed() (ch <-chan struct{}, cancel func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	c := make(chan struct{}, 1)
	v.subs[id] = c
	v.mu.Unlock()

	return c, func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// Retry builds a thunk suitable for Evaluator.Evaluate from a handler that
// may decide it isn't ready yet: read returns (resp, true) for a final
// Response, or (nil, false) to mean "draft, wait for the next change on v".
// The returned thunk blocks synchronously inside the calling executor
// goroutine until read reports ready, which is safe because Evaluate runs
// it off the Task's own goroutine.
//
// ctx is checked alongside v's change signal, so a request whose Task has
// already terminated (timeout, client disconnect, container error) wakes the
// wait immediately instead of blocking on a Var that may never change again.
// Pass req.Context() from the handler the thunk is built for.
func Retry[T any](ctx context.Context, v *Var[T], read func(T, bool) (*hookless.Response, bool)) func() *hookless.Response {
	return func() *hookless.Response {
		for {
			value, ready := v.Get()
			resp, final := read(value, ready)
			if final {
				return resp
			}
			changed, cancel := v.Changed()
			select {
			case <-changed:
			case <-ctx.Done():
				cancel()
				return nil
			}
			cancel()
		}
	}
}
