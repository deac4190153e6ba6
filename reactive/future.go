// Package reactive is the one concrete Evaluator/Future adaptor this
// module ships. It is intentionally small: real reactive dependency
// tracking (detecting a draft read, recomputing only the invalidated
// subgraph) belongs to a full reactive runtime, which lives outside this
// module. This package gives handlers a minimal but genuine building
// block — Var, a broadcast value cell a draft handler can poll and wait
// on — plus a run-once Evaluator that executes a thunk on the Servlet's
// chosen Executor and completes its Future exactly once.
package reactive

import (
	"context"
	"fmt"
	"sync"

	"github.com/hookless-go/hookless"
)

// future implements hookless.Future. Completion is protected by mu so a
// caller registering OnDone concurrently with completion either sees the
// already-completed result immediately or gets called back exactly once
// when completion happens.
type future struct {
	mu       sync.Mutex
	done     bool
	resp     *hookless.Response
	err      error
	canceled bool
	cancelCh chan struct{}
	onDone   func(*hookless.Response, error)
}

func newFuture() *future {
	return &future{cancelCh: make(chan struct{})}
}

// run invokes thunk and completes f with its result. A panic from thunk is
// recovered and reported as the future's error, the same way an
// application exception surfaces as exceptional completion. run must be
// called from the executor the Evaluator was given: the Task relies on
// that to observe OnDone's callback firing synchronously on it.
func (f *future) run(thunk func() *hookless.Response) {
	resp, err := f.invoke(thunk)

	select {
	case <-f.cancelCh:
		f.complete(nil, context.Canceled)
	default:
		f.complete(resp, err)
	}
}

func (f *future) invoke(thunk func() *hookless.Response) (resp *hookless.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reactive: handler panic: %v", r)
		}
	}()
	return thunk(), nil
}

func (f *future) complete(resp *hookless.Response, err error) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}
	f.done = true
	f.resp = resp
	f.err = err
	cb := f.onDone
	f.mu.Unlock()

	if cb != nil {
		cb(resp, err)
	}
}

// OnDone implements hookless.Future.
func (f *future) OnDone(fn func(*hookless.Response, error)) {
	f.mu.Lock()
	if f.done {
		resp, err := f.resp, f.err
		f.mu.Unlock()
		fn(resp, err)
		return
	}
	f.onDone = fn
	f.mu.Unlock()
}

// Cancel implements hookless.Future. It cannot interrupt a thunk already
// running on the executor — Go has no cooperative preemption hook here —
// but it ensures the eventual completion is reported as canceled rather
// than whatever the thunk happened to return.
func (f *future) Cancel() {
	f.mu.Lock()
	if f.done || f.canceled {
		f.mu.Unlock()
		return
	}
	f.canceled = true
	f.mu.Unlock()
	close(f.cancelCh)
}

var _ hookless.Future = (*future)(nil)
