// Package hooklesstest provides in-memory fakes for hookless.Container and
// its collaborators, so a Servlet can be driven through its full async
// lifecycle from a table test without a real network listener. The fluent
// builder below follows a familiar request-builder idiom, repurposed to
// build a fake Exchange instead of an *http.Request.
package hooklesstest

import (
	"net/http"
	"sync"

	"github.com/hookless-go/hookless"
)

// RequestBuilder assembles a fake inbound request.
type RequestBuilder struct {
	method  string
	target  string
	query   string
	headers map[string][]string
	cookies []*http.Cookie
	local   string
	remote  string
	body    []byte
	manual  bool
}

// NewRequest returns a builder defaulted to GET "/" from 127.0.0.1 to
// 127.0.0.1.
func NewRequest() *RequestBuilder {
	return &RequestBuilder{
		method:  http.MethodGet,
		target:  "/",
		headers: make(map[string][]string),
		local:   "127.0.0.1:8080",
		remote:  "127.0.0.1:9000",
	}
}

func (b *RequestBuilder) Method(m string) *RequestBuilder { b.method = m; return b }
func (b *RequestBuilder) GET(target string) *RequestBuilder {
	b.method, b.target = http.MethodGet, target
	return b
}
func (b *RequestBuilder) POST(target string) *RequestBuilder {
	b.method, b.target = http.MethodPost, target
	return b
}
func (b *RequestBuilder) Query(q string) *RequestBuilder          { b.query = q; return b }
func (b *RequestBuilder) Local(addr string) *RequestBuilder       { b.local = addr; return b }
func (b *RequestBuilder) Remote(addr string) *RequestBuilder      { b.remote = addr; return b }
func (b *RequestBuilder) WithBody(body string) *RequestBuilder    { b.body = []byte(body); return b }
func (b *RequestBuilder) WithBodyBytes(body []byte) *RequestBuilder {
	b.body = body
	return b
}

// WithHeader appends a value for name, preserving duplicates the way a
// real request line-by-line parse would — Request conversion fuses them.
func (b *RequestBuilder) WithHeader(name, value string) *RequestBuilder {
	b.headers[name] = append(b.headers[name], value)
	return b
}

func (b *RequestBuilder) WithCookie(c *http.Cookie) *RequestBuilder {
	b.cookies = append(b.cookies, c)
	return b
}

// ManualBody opts the built FakeInputStream out of auto-delivering the
// body set with WithBody; the test drives it itself via the returned
// FakeExchange's FakeInput()/Push/Finish, to exercise not-ready pauses
// between chunks.
func (b *RequestBuilder) ManualBody() *RequestBuilder {
	b.manual = true
	return b
}

// Build returns a fake Container and Exchange ready to pass to
// Servlet.Serve. Unless ManualBody was called, the body set with WithBody
// (if any) is already available as a single chunk and the input reports no
// further data; with ManualBody the input starts empty and unfinished.
func (b *RequestBuilder) Build() (*FakeContainer, *FakeExchange) {
	raw := &fakeRawRequest{
		method: b.method,
		target: b.target,
		query:  b.query,
		header: b.headers,
		cookie: b.cookies,
		local:  b.local,
		remote: b.remote,
	}
	var in *FakeInputStream
	if b.manual {
		in = &FakeInputStream{}
	} else {
		in = newFakeInput(b.body)
	}
	out := newFakeOutput()
	exch := &FakeExchange{
		raw:  raw,
		resp: newFakeRawResponse(),
		in:   in,
		out:  out,
	}
	c := &FakeContainer{}
	return c, exch
}

// FakeContainer implements hookless.Container.
type FakeContainer struct {
	mu   sync.Mutex
	ctxs []*FakeAsyncContext
}

func (c *FakeContainer) StartAsync(exch hookless.Exchange) hookless.AsyncContext {
	ctx := newFakeAsyncContext()
	c.mu.Lock()
	c.ctxs = append(c.ctxs, ctx)
	c.mu.Unlock()
	return ctx
}

// LastAsyncContext returns the most recently created AsyncContext, for
// tests that need to fire OnTimeout/OnError directly.
func (c *FakeContainer) LastAsyncContext() *FakeAsyncContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.ctxs) == 0 {
		return nil
	}
	return c.ctxs[len(c.ctxs)-1]
}

var _ hookless.Container = (*FakeContainer)(nil)
