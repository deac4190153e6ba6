package hookless

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Endpoint is a network address and port, used for Request.Local and
// Request.Remote.
type Endpoint struct {
	Addr net.IP
	Port int
}

func (e Endpoint) String() string {
	if e.Addr == nil {
		return fmt.Sprintf(":%d", e.Port)
	}
	return net.JoinHostPort(e.Addr.String(), fmt.Sprintf("%d", e.Port))
}

// parseEndpoint parses a "host:port" string into an Endpoint. If the host
// cannot be parsed as a numeric IP, it falls back to the unspecified
// address with the parsed port.
func parseEndpoint(hostport string) Endpoint {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return Endpoint{}
	}
	var port int
	fmt.Sscanf(portStr, "%d", &port)

	ip := net.ParseIP(host)
	if ip == nil {
		return Endpoint{Addr: net.IPv4zero, Port: port}
	}
	return Endpoint{Addr: ip, Port: port}
}

// Request is an immutable-by-convention snapshot of an inbound HTTP request.
// All fields are populated with usable defaults by NewRequest, except URL,
// which has no sensible default.
type Request struct {
	Local   Endpoint
	Remote  Endpoint
	Method  string
	url     *url.URL
	urlSet  bool
	Headers Headers
	Cookies []*http.Cookie
	Data    []byte
	ctx     context.Context
}

// NewRequest returns a Request with every field populated except URL.
func NewRequest() *Request {
	return &Request{
		Method:  "GET",
		Headers: NewHeaders(),
		Cookies: nil,
		Data:    nil,
	}
}

// Context returns the context bound to this Request's Task, canceled the
// moment the Task terminates for any reason (normal completion, timeout, or
// a container error) — not just while the response is still pending.
// reactive.Retry uses it to stop waiting on a Var that will never change
// again instead of blocking forever. Never nil: a Request built without a
// Task (e.g. in a unit test calling Servlet.Service directly) reports
// context.Background().
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// WithContext sets the context returned by Context and returns the receiver.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// URL returns the request URL. Panics if it was never set, since an unset
// URL is a programming error once conversion has run.
func (r *Request) URL() *url.URL {
	if !r.urlSet {
		panic("hookless: Request.URL accessed before being set")
	}
	return r.url
}

// HasURL reports whether URL has been assigned.
func (r *Request) HasURL() bool {
	return r.urlSet
}

// WithURL sets the URL and returns the receiver.
func (r *Request) WithURL(u *url.URL) *Request {
	r.url = u
	r.urlSet = true
	return r
}

// WithMethod sets Method and returns the receiver.
func (r *Request) WithMethod(m string) *Request {
	r.Method = strings.ToUpper(m)
	return r
}

// WithData sets Data and returns the receiver.
func (r *Request) WithData(data []byte) *Request {
	r.Data = data
	return r
}

// FromRawRequest converts a container's RawRequest into a populated
// Request. The body is not read here; Task fills it via the non-blocking
// read loop. Returns an error if the URL fails to parse — the one fatal
// condition conversion can produce — which the Task surfaces through the
// guard mechanism.
func FromRawRequest(raw RawRequest) (*Request, error) {
	req := NewRequest()
	req.Method = strings.ToUpper(raw.Method())
	req.Local = parseEndpoint(raw.LocalAddr())
	req.Remote = parseEndpoint(raw.RemoteAddr())
	req.Cookies = raw.Cookies()

	for name, values := range raw.Header() {
		for _, v := range values {
			req.Headers.Add(name, v)
		}
	}

	raw_url := raw.RequestURL()
	if q := raw.Query(); q != "" {
		raw_url = raw_url + "?" + q
	}
	u, err := url.Parse(raw_url)
	if err != nil {
		return nil, fmt.Errorf("hookless: parse request URL %q: %w", raw_url, err)
	}
	req.WithURL(canonicalizeURL(u))

	return req, nil
}

// canonicalizeURL normalizes a parsed URL: lower-cased scheme/host, and a
// path of "/" instead of "" for an otherwise-empty path.
func canonicalizeURL(u *url.URL) *url.URL {
	out := *u
	out.Scheme = strings.ToLower(out.Scheme)
	out.Host = strings.ToLower(out.Host)
	if out.Path == "" {
		out.Path = "/"
	}
	return &out
}
