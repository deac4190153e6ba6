package hooklesstest

import (
	"fmt"
	"sync"

	"github.com/hookless-go/hookless"
)

// FakeInputStream is a manually-driven hookless.InputStream: tests decide
// exactly when bytes "arrive" and when the stream reports finished, so
// not-ready pauses and multi-chunk delivery can be exercised deterministically.
type FakeInputStream struct {
	mu         sync.Mutex
	buf        []byte
	noMoreData bool
	closed     bool
	onReadable func()
	onError    func(error)
}

func newFakeInput(body []byte) *FakeInputStream {
	in := &FakeInputStream{}
	// Default behavior matches a request whose entire body is already
	// buffered by the container: immediately finished (empty body) or
	// immediately available as one chunk. Tests wanting a not-ready pause
	// between chunks should build with ManualBody and drive Push/Finish
	// themselves.
	if len(body) == 0 {
		in.noMoreData = true
	} else {
		in.buf = append([]byte(nil), body...)
		in.noMoreData = true
	}
	return in
}

// Push appends data to the stream and notifies the registered OnReadable
// callback, as if the container observed more bytes arrive.
func (in *FakeInputStream) Push(data []byte) {
	in.mu.Lock()
	in.buf = append(in.buf, data...)
	cb := in.onReadable
	in.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// Finish marks no further data will ever arrive and notifies OnReadable.
func (in *FakeInputStream) Finish() {
	in.mu.Lock()
	in.noMoreData = true
	cb := in.onReadable
	in.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// PushAndFinish is Push followed by Finish, delivered as one notification.
func (in *FakeInputStream) PushAndFinish(data []byte) {
	in.mu.Lock()
	in.buf = append(in.buf, data...)
	in.noMoreData = true
	cb := in.onReadable
	in.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// Fail notifies the registered OnError callback, as if the container
// observed a read failure.
func (in *FakeInputStream) Fail(err error) {
	in.mu.Lock()
	cb := in.onError
	in.mu.Unlock()
	if cb != nil {
		cb(err)
	}
}

func (in *FakeInputStream) IsFinished() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.noMoreData && len(in.buf) == 0
}

func (in *FakeInputStream) IsReady() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.buf) > 0
}

func (in *FakeInputStream) Read(dst []byte) (int, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.buf) == 0 {
		return -1, nil
	}
	n := copy(dst, in.buf)
	in.buf = in.buf[n:]
	return n, nil
}

func (in *FakeInputStream) OnReadable(fn func()) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.onReadable = fn
}

func (in *FakeInputStream) OnError(fn func(error)) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.onError = fn
}

func (in *FakeInputStream) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return fmt.Errorf("hooklesstest: input stream already closed")
	}
	in.closed = true
	return nil
}

// Closed reports whether Close has been called, for assertions.
func (in *FakeInputStream) Closed() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.closed
}

var _ hookless.InputStream = (*FakeInputStream)(nil)
