package hookless

// Evaluator adapts the reactive runtime. Given a thunk that computes a
// Response and the Executor the Servlet selected, it returns a cancellable
// Future completing with the first non-draft Response. The reactive
// runtime's own internals — how it detects a draft value, how it re-runs
// the thunk, how it tracks dependencies — are external to this package;
// see hookless/reactive for the one concrete adaptor this module ships.
type Evaluator interface {
	Evaluate(thunk func() *Response, executor Executor) Future
}

// Future is the cancellable, observable computation an Evaluator returns.
// The Task requires OnDone's callback to run synchronously on the executor
// that produced the future, so it can check its own state under its own
// lock before re-scheduling onto the container.
type Future interface {
	// OnDone registers fn to run exactly once: on normal completion with
	// (resp, nil), or on failure/cancellation with (nil, err). If the
	// future has already completed when OnDone is called, fn runs
	// immediately, on the calling goroutine.
	OnDone(fn func(resp *Response, err error))

	// Cancel requests cancellation. A no-op if the future has already
	// completed.
	Cancel()
}
