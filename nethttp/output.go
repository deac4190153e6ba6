package nethttp

import (
	"net/http"

	"github.com/hookless-go/hookless"
)

// outputStream writes directly to the underlying http.ResponseWriter.
// net/http's ResponseWriter already buffers and never blocks the calling
// goroutine for meaningfully long, so IsReady is unconditionally true; this
// stream exists to satisfy the contract and to commit the response's status
// line exactly once, at the start of the write phase.
type outputStream struct {
	resp    *rawResponse
	w       http.ResponseWriter
	flusher http.Flusher

	onWritable func()
	onError    func(error)
}

func newOutputStream(resp *rawResponse, w http.ResponseWriter, flusher http.Flusher) *outputStream {
	return &outputStream{resp: resp, w: w, flusher: flusher}
}

func (out *outputStream) IsReady() bool { return true }

func (out *outputStream) Write(p []byte) (int, error) {
	n, err := out.w.Write(p)
	if out.flusher != nil {
		out.flusher.Flush()
	}
	return n, err
}

// OnWritable commits the response status line before recording fn: by the
// time a Task begins its write phase, status/headers/cookies are already
// final (see task.go's produceResponse), so this is the right moment to
// send them even for a response with no body.
func (out *outputStream) OnWritable(fn func()) {
	out.onWritable = fn
	out.resp.commit()
}

func (out *outputStream) OnError(fn func(error)) {
	out.onError = fn
}

var _ hookless.OutputStream = (*outputStream)(nil)
