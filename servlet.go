package hookless

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// HandlerFunc is a per-method request handler. It may be invoked any
// number of times for the same Request value by the reactive evaluator and
// must not mutate Request or observe mutations from a previous invocation.
type HandlerFunc func(*Request) *Response

// Executor runs a function asynchronously: it is what a Servlet's executor
// selector returns, naming the executor the reactive evaluator will run
// Service on. See reactive.Evaluator for the consumer side of this
// contract.
type Executor interface {
	Execute(func())
}

// ExecutorFunc adapts a plain function to Executor.
type ExecutorFunc func(func())

// Execute implements Executor.
func (f ExecutorFunc) Execute(fn func()) { f(fn) }

// goExecutor stands in for the reactive runtime's shared executor. Every
// call gets its own goroutine; this package does not itself implement a
// worker pool because pooling is the reactive runtime's concern, not the
// Task's.
type goExecutor struct{}

func (goExecutor) Execute(fn func()) { go fn() }

// DefaultExecutor is used by a Servlet that has not set one explicitly.
var DefaultExecutor Executor = goExecutor{}

// dispatchMethods are the seven methods dispatch recognizes by name.
var dispatchMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost,
	http.MethodPut, http.MethodDelete, http.MethodOptions, http.MethodTrace,
}

// Servlet is the application-facing polymorphic entry point. Applications
// build one with NewServlet and ServletOptions instead of subclassing:
// registration is deterministic in a way reflective capability discovery
// is not. Which per-method handlers a Servlet "declares" is exactly the set
// registered via WithGet/WithPost/etc., and that registration set is what
// OPTIONS reflects.
type Servlet struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	service  func(*Request) *Response // overrides per-method dispatch entirely, if set
	executor  Executor
	evaluator Evaluator
	metrics   Metrics
	logger    *slog.Logger
	config    Config
}

// ServletOption configures a Servlet at construction time.
type ServletOption func(*Servlet)

// WithMethod registers fn as the handler for method. WithGet/WithPost/etc
// below are convenience wrappers over this. Service dispatches only GET,
// HEAD, POST, PUT, DELETE, OPTIONS and TRACE by name: a handler registered
// for any other method (PATCH included) is never invoked, and such requests
// get the 405 default, although the method is still listed by
// AllowedMethods and the default OPTIONS Allow header.
func WithMethod(method string, fn HandlerFunc) ServletOption {
	method = strings.ToUpper(method)
	return func(s *Servlet) { s.handlers[method] = fn }
}

func WithGet(fn HandlerFunc) ServletOption     { return WithMethod(http.MethodGet, fn) }
func WithHead(fn HandlerFunc) ServletOption    { return WithMethod(http.MethodHead, fn) }
func WithPost(fn HandlerFunc) ServletOption    { return WithMethod(http.MethodPost, fn) }
func WithPut(fn HandlerFunc) ServletOption     { return WithMethod(http.MethodPut, fn) }
func WithDelete(fn HandlerFunc) ServletOption  { return WithMethod(http.MethodDelete, fn) }
func WithOptions(fn HandlerFunc) ServletOption { return WithMethod(http.MethodOptions, fn) }
func WithTrace(fn HandlerFunc) ServletOption   { return WithMethod(http.MethodTrace, fn) }

// WithService overrides Service entirely, bypassing per-method dispatch:
// the default dispatches on req.Method, but an application may provide its
// own service(Request) directly instead.
func WithService(fn func(*Request) *Response) ServletOption {
	return func(s *Servlet) { s.service = fn }
}

// WithExecutor sets the executor the reactive evaluator runs Service on.
func WithExecutor(e Executor) ServletOption {
	return func(s *Servlet) { s.executor = e }
}

// WithEvaluator sets the reactive evaluator adaptor a Task uses to run
// Service. There is no default: the reactive runtime is an external
// collaborator, and a Servlet without one configured cannot serve requests
// (see Serve). github.com/hookless-go/hookless/reactive provides one.
func WithEvaluator(e Evaluator) ServletOption {
	return func(s *Servlet) { s.evaluator = e }
}

// WithMetrics sets where the Task reports its counters, gauge, and
// histogram. Defaults to a no-op sink; github.com/hookless-go/hookless/metrics
// provides a Prometheus-backed one.
func WithMetrics(m Metrics) ServletOption {
	return func(s *Servlet) { s.metrics = m }
}

// WithLogger sets the slog.Logger used for guard/fault logging (falls back
// to slog.Default() when unset).
func WithLogger(l *slog.Logger) ServletOption {
	return func(s *Servlet) { s.logger = l }
}

// WithConfig sets the Task tunables (read/write buffer sizes, timeout).
// See config.go. Panics if cfg fails validation, matching the fail-fast
// philosophy of the other setters in this package (response.go).
func WithConfig(cfg Config) ServletOption {
	return func(s *Servlet) {
		if err := cfg.Validate(); err != nil {
			panic("hookless: invalid Config: " + err.Error())
		}
		s.config = cfg
	}
}

// NewServlet builds a Servlet from the given options.
func NewServlet(opts ...ServletOption) *Servlet {
	s := &Servlet{
		handlers: make(map[string]HandlerFunc),
		config:   DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Servlet) logSink() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func (s *Servlet) executorOrDefault() Executor {
	if s.executor != nil {
		return s.executor
	}
	return DefaultExecutor
}

// Config returns the Servlet's tunables (see config.go). A container
// implementation reads Config().Timeout instead of tracking a separate
// timeout of its own, so the one value set via WithConfig governs both the
// Task's read/write buffering and how long the container lets a Task run.
func (s *Servlet) Config() Config {
	return s.config
}

func (s *Servlet) metricsOrDefault() Metrics {
	if s.metrics != nil {
		return s.metrics
	}
	return NoopMetrics
}

func (s *Servlet) handler(method string) (HandlerFunc, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.handlers[method]
	return fn, ok
}

// declaredMethods returns the sorted, de-duplicated set of methods this
// Servlet declares a handler for, union {OPTIONS}, plus HEAD whenever GET
// is declared.
func (s *Servlet) declaredMethods() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{}, len(s.handlers)+2)
	set[http.MethodOptions] = struct{}{}
	for m := range s.handlers {
		set[m] = struct{}{}
	}
	if _, ok := s.handlers[http.MethodGet]; ok {
		set[http.MethodHead] = struct{}{}
	}

	methods := make([]string, 0, len(set))
	for m := range set {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// AllowedMethods exposes the same sorted, de-duplicated method set that
// doOptions reflects into its Allow header, for middleware (see
// hookless/middleware.CORS) that needs to advertise preflight methods
// without hardcoding a list disconnected from what is actually registered.
func (s *Servlet) AllowedMethods() []string {
	return s.declaredMethods()
}

// Service dispatches request to the appropriate per-method handler. It is
// pure with respect to req and may be invoked any number of times by the
// reactive evaluator.
func (s *Servlet) Service(req *Request) *Response {
	if s.service != nil {
		return s.service(req)
	}

	switch strings.ToUpper(req.Method) {
	case http.MethodHead:
		return s.doHead(req)
	case http.MethodOptions:
		return s.doOptions(req)
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodTrace:
		if fn, ok := s.handler(strings.ToUpper(req.Method)); ok {
			return fn(req)
		}
		return methodNotAllowedResponse()
	default:
		// Includes PATCH: counted (see metrics.go) but never dispatched by
		// name, an asymmetry preserved rather than silently fixed.
		return methodNotAllowedResponse()
	}
}

// doHead defaults to invoking GET and discarding the body.
func (s *Servlet) doHead(req *Request) *Response {
	if fn, ok := s.handler(http.MethodHead); ok {
		return fn(req)
	}
	if fn, ok := s.handler(http.MethodGet); ok {
		resp := fn(req)
		resp.Data = ByteWindow{}
		return resp
	}
	return methodNotAllowedResponse()
}

// doOptions reflects on the Servlet's registered methods to build the
// Allow header.
func (s *Servlet) doOptions(req *Request) *Response {
	if fn, ok := s.handler(http.MethodOptions); ok {
		return fn(req)
	}
	allow := strings.Join(s.declaredMethods(), ", ")
	return NewResponse().WithStatus(http.StatusOK).
		WithHeader("Allow", allow).
		WithHeader("Cache-Control", noCacheNoStore)
}

// Serve is the entry point the container calls once per exchange: it
// builds a Task bound to (this Servlet, container, exchange) and starts
// it. The Task is retained by its own callback registrations and is never
// exposed back to the application. Panics if no Evaluator was configured
// (see WithEvaluator) — that is a wiring error, not a per-request one.
func (s *Servlet) Serve(container Container, exch Exchange) {
	if s.evaluator == nil {
		panic("hookless: Servlet has no Evaluator configured (use WithEvaluator)")
	}
	t := newTask(s, container, exch)
	t.start()
}
