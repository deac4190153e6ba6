package nethttp

import (
	"fmt"
	"io"
	"sync"

	"github.com/hookless-go/hookless"
)

// inputStream adapts a blocking io.ReadCloser (an *http.Request's Body) to
// hookless.InputStream's non-blocking contract: a background goroutine pumps
// bytes from body into an in-memory buffer and fires onReadable, so the Task
// never itself blocks on a read.
type inputStream struct {
	mu         sync.Mutex
	body       io.ReadCloser
	buf        []byte
	eof        bool
	failed     error
	started    bool
	closed     bool
	onReadable func()
	onError    func(error)
}

func newInputStream(body io.ReadCloser) *inputStream {
	return &inputStream{body: body}
}

func (in *inputStream) OnReadable(fn func()) {
	in.mu.Lock()
	in.onReadable = fn
	start := !in.started
	in.started = true
	in.mu.Unlock()
	if start {
		go in.pump()
	}
}

func (in *inputStream) OnError(fn func(error)) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.onError = fn
}

// pump reads body to completion off the calling goroutine, appending each
// chunk under the lock and notifying onReadable once per chunk (or once on
// EOF/error), exactly the notifications IsFinished/IsReady distinguish.
func (in *inputStream) pump() {
	chunk := make([]byte, 32*1024)
	for {
		n, err := in.body.Read(chunk)
		if n > 0 {
			in.mu.Lock()
			in.buf = append(in.buf, chunk[:n]...)
			cb := in.onReadable
			in.mu.Unlock()
			if cb != nil {
				cb()
			}
		}
		if err != nil {
			if err == io.EOF {
				in.mu.Lock()
				in.eof = true
				cb := in.onReadable
				in.mu.Unlock()
				if cb != nil {
					cb()
				}
				return
			}
			in.mu.Lock()
			in.failed = err
			cb := in.onError
			in.mu.Unlock()
			if cb != nil {
				cb(err)
			}
			return
		}
	}
}

func (in *inputStream) IsFinished() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.eof && len(in.buf) == 0
}

func (in *inputStream) IsReady() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.buf) > 0
}

func (in *inputStream) Read(dst []byte) (int, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.buf) == 0 {
		return -1, nil
	}
	n := copy(dst, in.buf)
	in.buf = in.buf[n:]
	return n, nil
}

func (in *inputStream) Close() error {
	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		return fmt.Errorf("nethttp: input stream already closed")
	}
	in.closed = true
	in.mu.Unlock()
	return in.body.Close()
}

var _ hookless.InputStream = (*inputStream)(nil)
