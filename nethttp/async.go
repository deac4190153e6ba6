package nethttp

import (
	"sync"
	"time"

	"github.com/hookless-go/hookless"
)

// asyncContext implements hookless.AsyncContext backed by a timer for the
// timeout callback and a goroutine-per-Schedule dispatch, matching the
// contract that Schedule never runs its fn synchronously in the caller's
// frame.
type asyncContext struct {
	mu         sync.Mutex
	resp       *rawResponse
	onComplete func()
	onError    func(error)
	onTimeout  func()
	completed  bool
	done       chan struct{}
	timer      *time.Timer
}

func newAsyncContext(timeout time.Duration, resp *rawResponse) *asyncContext {
	a := &asyncContext{done: make(chan struct{}), resp: resp}
	if timeout > 0 {
		a.timer = time.AfterFunc(timeout, a.fireTimeout)
	}
	return a
}

// Done is read by Container.ServeHTTP to know when it may return.
func (a *asyncContext) Done() <-chan struct{} { return a.done }

func (a *asyncContext) OnComplete(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onComplete = fn
}

func (a *asyncContext) OnError(fn func(error)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onError = fn
}

func (a *asyncContext) OnTimeout(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onTimeout = fn
}

func (a *asyncContext) Schedule(fn func()) {
	go fn()
}

// Complete ends the async transaction. It also commits the response status
// line if nothing has, a safety net for paths that only ever touch
// RawResponse (the timeout and status-only fail paths in task.go never call
// through OutputStream) — commit is idempotent, so this is a no-op when the
// write phase already ran it.
func (a *asyncContext) Complete() {
	a.mu.Lock()
	first := !a.completed
	a.completed = true
	if a.timer != nil {
		a.timer.Stop()
	}
	cb := a.onComplete
	a.mu.Unlock()

	a.resp.commit()

	if first {
		close(a.done)
	}
	if cb != nil {
		cb()
	}
}

func (a *asyncContext) fireTimeout() {
	a.mu.Lock()
	cb := a.onTimeout
	a.mu.Unlock()
	if cb != nil {
		cb()
	}
}

var _ hookless.AsyncContext = (*asyncContext)(nil)
