package hookless

import "time"

// Metrics receives the observability events a Task emits over its
// lifetime. Field names and bucketing are the framework's contract; the
// backend (Prometheus, a log sink, nothing at all) is not. See
// github.com/hookless-go/hookless/metrics for a Prometheus-backed
// implementation.
type Metrics interface {
	// TaskStarted/TaskEnded bound the active-task gauge and feed the
	// cumulative task-duration histogram.
	TaskStarted()
	TaskEnded(d time.Duration)

	ReadBytes(n int)
	ReadCall()
	ReadWait()

	WriteBytes(n int)
	WriteCall()
	WriteWait()

	ContainerException()
	AsyncException()
	ServiceException()
	TimeoutException()

	// Method increments a per-HTTP-method counter. Implementations should
	// bucket anything outside GET/HEAD/OPTIONS/POST/PUT/DELETE/PATCH as
	// "OTHER".
	Method(method string)

	// Status increments a per-status-code counter: the exact code when in
	// [100, 599], else an "other" bucket.
	Status(code int)
}

type noopMetrics struct{}

func (noopMetrics) TaskStarted()              {}
func (noopMetrics) TaskEnded(time.Duration)   {}
func (noopMetrics) ReadBytes(int)             {}
func (noopMetrics) ReadCall()                 {}
func (noopMetrics) ReadWait()                 {}
func (noopMetrics) WriteBytes(int)            {}
func (noopMetrics) WriteCall()                {}
func (noopMetrics) WriteWait()                {}
func (noopMetrics) ContainerException()       {}
func (noopMetrics) AsyncException()           {}
func (noopMetrics) ServiceException()         {}
func (noopMetrics) TimeoutException()         {}
func (noopMetrics) Method(string)             {}
func (noopMetrics) Status(int)                {}

// NoopMetrics discards every event. It is the default for a Servlet that
// has not called WithMetrics.
var NoopMetrics Metrics = noopMetrics{}
