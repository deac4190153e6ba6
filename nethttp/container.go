// Package nethttp bridges hookless.Container onto net/http. A net/http
// handler's goroutine is already blocking-per-request, so Container.ServeHTTP
// blocks until the Task it starts terminates; non-blocking readiness is
// emulated with a small background pump goroutine per input stream, reading
// off the request body's blocking io.Reader and surfacing what's
// accumulated so far through IsReady/OnReadable, the way the container's
// contract in the root package expects.
package nethttp

import (
	"net/http"

	"github.com/hookless-go/hookless"
)

// Container serves one hookless.Servlet over net/http. The per-request
// timeout it enforces is the Servlet's own Config().Timeout (see
// hookless.WithConfig) rather than a separate value tracked here, so a
// Servlet's tunables stay in one place.
type Container struct {
	Servlet *hookless.Servlet
}

// New returns a Container wrapping servlet.
func New(servlet *hookless.Servlet) *Container {
	return &Container{Servlet: servlet}
}

// ServeHTTP implements http.Handler. It blocks until the Task started for
// this request completes.
func (c *Container) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := newRawResponse(w)
	flusher, _ := w.(http.Flusher)

	exch := &exchange{
		raw:  rawRequest{r: r},
		resp: resp,
		in:   newInputStream(r.Body),
		out:  newOutputStream(resp, w, flusher),
	}

	c.Servlet.Serve(c, exch)
	<-exch.async.Done()
}

// StartAsync implements hookless.Container.
func (c *Container) StartAsync(ex hookless.Exchange) hookless.AsyncContext {
	e := ex.(*exchange)
	e.async = newAsyncContext(c.Servlet.Config().Timeout, e.resp)
	return e.async
}

var _ hookless.Container = (*Container)(nil)
