package hooklesstest

import (
	"sync"

	"github.com/hookless-go/hookless"
)

// FakeOutputStream is an always-ready, in-memory hookless.OutputStream;
// SetReady(false) lets a test force a not-ready pause before calling
// SetReady(true) to resume the write loop via OnWritable.
type FakeOutputStream struct {
	mu         sync.Mutex
	ready      bool
	written    []byte
	onWritable func()
	onError    func(error)
}

func newFakeOutput() *FakeOutputStream {
	return &FakeOutputStream{ready: true}
}

func (out *FakeOutputStream) IsReady() bool {
	out.mu.Lock()
	defer out.mu.Unlock()
	return out.ready
}

func (out *FakeOutputStream) Write(p []byte) (int, error) {
	out.mu.Lock()
	defer out.mu.Unlock()
	out.written = append(out.written, p...)
	return len(p), nil
}

func (out *FakeOutputStream) OnWritable(fn func()) {
	out.mu.Lock()
	defer out.mu.Unlock()
	out.onWritable = fn
}

func (out *FakeOutputStream) OnError(fn func(error)) {
	out.mu.Lock()
	defer out.mu.Unlock()
	out.onError = fn
}

// SetReady toggles readiness. Setting true after false fires OnWritable.
func (out *FakeOutputStream) SetReady(ready bool) {
	out.mu.Lock()
	wasReady := out.ready
	out.ready = ready
	cb := out.onWritable
	out.mu.Unlock()
	if ready && !wasReady && cb != nil {
		cb()
	}
}

// Fail notifies the registered OnError callback.
func (out *FakeOutputStream) Fail(err error) {
	out.mu.Lock()
	cb := out.onError
	out.mu.Unlock()
	if cb != nil {
		cb(err)
	}
}

// Written returns everything written so far.
func (out *FakeOutputStream) Written() []byte {
	out.mu.Lock()
	defer out.mu.Unlock()
	return append([]byte(nil), out.written...)
}

var _ hookless.OutputStream = (*FakeOutputStream)(nil)
