package hooklesstest

import (
	"sync"

	"github.com/hookless-go/hookless"
)

// FakeAsyncContext implements hookless.AsyncContext. Schedule always hands
// fn to a new goroutine, matching the contract that it never runs
// synchronously within the caller's own call frame.
type FakeAsyncContext struct {
	mu         sync.Mutex
	onComplete func()
	onError    func(error)
	onTimeout  func()
	completed  bool
	done       chan struct{}
}

func newFakeAsyncContext() *FakeAsyncContext {
	return &FakeAsyncContext{done: make(chan struct{})}
}

// Done returns a channel closed the first time Complete is called, so
// tests can wait for the Task to reach its terminal state without polling.
func (a *FakeAsyncContext) Done() <-chan struct{} { return a.done }

func (a *FakeAsyncContext) OnComplete(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onComplete = fn
}

func (a *FakeAsyncContext) OnError(fn func(error)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onError = fn
}

func (a *FakeAsyncContext) OnTimeout(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onTimeout = fn
}

func (a *FakeAsyncContext) Schedule(fn func()) {
	go fn()
}

func (a *FakeAsyncContext) Complete() {
	a.mu.Lock()
	first := !a.completed
	a.completed = true
	cb := a.onComplete
	a.mu.Unlock()
	if first {
		close(a.done)
	}
	if cb != nil {
		cb()
	}
}

// FireTimeout simulates the container's timeout callback.
func (a *FakeAsyncContext) FireTimeout() {
	a.mu.Lock()
	cb := a.onTimeout
	a.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// FireError simulates the container's async-transaction error callback.
func (a *FakeAsyncContext) FireError(err error) {
	a.mu.Lock()
	cb := a.onError
	a.mu.Unlock()
	if cb != nil {
		cb(err)
	}
}

// Completed reports whether Complete has been called.
func (a *FakeAsyncContext) Completed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.completed
}

var _ hookless.AsyncContext = (*FakeAsyncContext)(nil)
