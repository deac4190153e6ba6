package hooklesstest

import (
	"net/http"
	"sync"

	"github.com/hookless-go/hookless"
)

// FakeExchange implements hookless.Exchange over in-memory fakes.
type FakeExchange struct {
	raw  *fakeRawRequest
	resp *FakeRawResponse
	in   *FakeInputStream
	out  *FakeOutputStream
}

func (e *FakeExchange) RawRequest() hookless.RawRequest   { return e.raw }
func (e *FakeExchange) RawResponse() hookless.RawResponse { return e.resp }
func (e *FakeExchange) Input() hookless.InputStream       { return e.in }
func (e *FakeExchange) Output() hookless.OutputStream     { return e.out }

// Response exposes the recorded response for assertions.
func (e *FakeExchange) Response() *FakeRawResponse { return e.resp }

// FakeInput exposes the concrete input stream so tests can Push/Finish/Fail.
func (e *FakeExchange) FakeInput() *FakeInputStream { return e.in }

// FakeOutput exposes the concrete output stream so tests can toggle
// readiness and read back what was written.
func (e *FakeExchange) FakeOutput() *FakeOutputStream { return e.out }

var _ hookless.Exchange = (*FakeExchange)(nil)

// fakeRawRequest implements hookless.RawRequest over fixed fields.
type fakeRawRequest struct {
	method string
	target string
	query  string
	header map[string][]string
	cookie []*http.Cookie
	local  string
	remote string
}

func (r *fakeRawRequest) Method() string                { return r.method }
func (r *fakeRawRequest) RequestURL() string             { return r.target }
func (r *fakeRawRequest) Query() string                  { return r.query }
func (r *fakeRawRequest) Header() map[string][]string    { return r.header }
func (r *fakeRawRequest) Cookies() []*http.Cookie        { return r.cookie }
func (r *fakeRawRequest) LocalAddr() string              { return r.local }
func (r *fakeRawRequest) RemoteAddr() string             { return r.remote }

var _ hookless.RawRequest = (*fakeRawRequest)(nil)

// FakeRawResponse implements hookless.RawResponse, recording everything
// the Task writes to it.
type FakeRawResponse struct {
	mu      sync.Mutex
	Status  int
	Headers http.Header
	Cookies []*http.Cookie
}

func newFakeRawResponse() *FakeRawResponse {
	return &FakeRawResponse{Headers: make(http.Header)}
}

func (r *FakeRawResponse) SetStatus(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = code
}

func (r *FakeRawResponse) SetHeader(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Headers.Set(key, value)
}

func (r *FakeRawResponse) AddCookie(c *http.Cookie) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cookies = append(r.Cookies, c)
}

var _ hookless.RawResponse = (*FakeRawResponse)(nil)
