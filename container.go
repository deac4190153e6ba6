package hookless

import "net/http"

// Container is the embedding server's entry point. Socket I/O, the thread
// pool, and HTTP parsing/framing all belong to the container, not to this
// package; Task depends on the container only through the interfaces below.
// See hookless/nethttp for a concrete net/http-backed implementation.
type Container interface {
	// StartAsync activates asynchronous processing for the in-flight
	// exchange and returns a handle bound to its lifecycle. Called at
	// most once per exchange, from the container's own calling thread.
	StartAsync(Exchange) AsyncContext
}

// Exchange groups the raw request/response and their non-blocking streams
// for one in-flight HTTP exchange, as handed to the Task by the container.
type Exchange interface {
	RawRequest() RawRequest
	RawResponse() RawResponse
	Input() InputStream
	Output() OutputStream
}

// AsyncContext is the async-transaction handle returned by
// Container.StartAsync: register lifecycle listeners, schedule a thunk back
// onto the container's thread pool, and complete the transaction. Listener
// registrations are one-shot: the Task registers each at most once, from
// Task.start, and the container guarantees callbacks do not fire
// synchronously out of the registering call.
type AsyncContext interface {
	OnComplete(func())
	OnError(func(error))
	OnTimeout(func())

	// Schedule runs fn on the container's thread pool, always on a
	// different goroutine than the caller — never synchronously within the
	// call to Schedule itself. Used by the Task to cross back from the
	// reactive executor onto the container pool before writing a response.
	Schedule(func())

	// Complete ends the async transaction. Idempotent from the Task's point
	// of view: the Task calls it at most once (guarded by the `completed`
	// flag) but the contract does not require the container to enforce
	// that itself.
	Complete()
}

// InputStream is the container's non-blocking request-body stream.
type InputStream interface {
	// IsFinished reports whether all body bytes have been consumed.
	IsFinished() bool
	// IsReady reports whether a Read is guaranteed not to block.
	IsReady() bool
	// Read behaves like io.Reader.Read, except -1 may be returned instead
	// of an error when no bytes were produced but the stream is not yet
	// finished.
	Read(buf []byte) (int, error)

	// OnReadable registers fn to run when data becomes available or all
	// data has been read; the Task distinguishes the two by calling
	// IsFinished/IsReady again inside the callback.
	OnReadable(fn func())
	// OnError registers fn to run once if the stream fails.
	OnError(fn func(error))
	// Close releases the stream once the Task has consumed IsFinished.
	Close() error
}

// OutputStream is the container's non-blocking response-body stream.
type OutputStream interface {
	// IsReady reports whether a Write is guaranteed not to block.
	IsReady() bool
	Write(buf []byte) (int, error)

	// OnWritable registers fn to run when the stream becomes writable again.
	OnWritable(fn func())
	// OnError registers fn to run once if the stream fails.
	OnError(fn func(error))
}

// RawRequest exposes the conventional HTTP accessors used during Request
// conversion. It is the container's native request object.
type RawRequest interface {
	Method() string
	// RequestURL returns the request-target without any query string.
	RequestURL() string
	// Query returns the raw query string, without a leading "?".
	Query() string
	// Header returns all header values as received, keyed by name, with
	// duplicates preserved in order (Request conversion fuses them).
	Header() map[string][]string
	Cookies() []*http.Cookie
	// LocalAddr/RemoteAddr are numeric "host:port" strings. A malformed
	// or unavailable address is reported as "".
	LocalAddr() string
	RemoteAddr() string
}

// RawResponse exposes the conventional HTTP accessors used during response
// finalization.
type RawResponse interface {
	SetStatus(code int)
	SetHeader(key, value string)
	AddCookie(c *http.Cookie)
}
