package nethttp

import (
	"net"
	"net/http"

	"github.com/hookless-go/hookless"
)

// exchange implements hookless.Exchange over one *http.Request/ResponseWriter
// pair.
type exchange struct {
	raw   rawRequest
	resp  *rawResponse
	in    *inputStream
	out   *outputStream
	async *asyncContext
}

func (e *exchange) RawRequest() hookless.RawRequest   { return e.raw }
func (e *exchange) RawResponse() hookless.RawResponse { return e.resp }
func (e *exchange) Input() hookless.InputStream       { return e.in }
func (e *exchange) Output() hookless.OutputStream     { return e.out }

var _ hookless.Exchange = (*exchange)(nil)

// rawRequest implements hookless.RawRequest over *http.Request.
type rawRequest struct {
	r *http.Request
}

func (rr rawRequest) Method() string             { return rr.r.Method }
func (rr rawRequest) RequestURL() string         { return rr.r.URL.Path }
func (rr rawRequest) Query() string              { return rr.r.URL.RawQuery }
func (rr rawRequest) Header() map[string][]string { return map[string][]string(rr.r.Header) }
func (rr rawRequest) Cookies() []*http.Cookie    { return rr.r.Cookies() }

func (rr rawRequest) LocalAddr() string {
	if addr, ok := rr.r.Context().Value(http.LocalAddrContextKey).(net.Addr); ok {
		return addr.String()
	}
	return ""
}

func (rr rawRequest) RemoteAddr() string { return rr.r.RemoteAddr }

var _ hookless.RawRequest = rawRequest{}
