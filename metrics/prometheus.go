// Package metrics provides a Prometheus-backed hookless.Metrics
// implementation: a gauge for in-flight tasks, a histogram for task
// duration, counters for read/write activity and fault paths, and
// per-method/per-status counters.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hookless-go/hookless"
)

// knownMethods is every method Method buckets by its exact name; anything
// else collapses to "OTHER" so a misbehaving or adversarial client can't
// create unbounded label series.
var knownMethods = map[string]bool{
	"GET": true, "HEAD": true, "OPTIONS": true, "POST": true,
	"PUT": true, "DELETE": true, "PATCH": true,
}

// Prometheus implements hookless.Metrics by registering a fixed set of
// collectors on the given registerer.
type Prometheus struct {
	tasksActive   prometheus.Gauge
	taskDuration  prometheus.Histogram
	readBytes     prometheus.Counter
	readCalls     prometheus.Counter
	readWaits     prometheus.Counter
	writeBytes    prometheus.Counter
	writeCalls    prometheus.Counter
	writeWaits    prometheus.Counter
	containerExc  prometheus.Counter
	asyncExc      prometheus.Counter
	serviceExc    prometheus.Counter
	timeoutExc    prometheus.Counter
	methodTotal   *prometheus.CounterVec
	statusTotal   *prometheus.CounterVec
}

// NewPrometheus builds and registers a Prometheus collector set under the
// given namespace (e.g. "hookless"). Panics if registration fails, matching
// the fail-fast construction philosophy used throughout this module —
// a metrics wiring error is a startup-time programming error, not a
// per-request one.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	p := &Prometheus{
		tasksActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks_active",
			Help:      "Number of Tasks currently in flight.",
		}),
		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Task lifetime from start to termination.",
			Buckets:   prometheus.DefBuckets,
		}),
		readBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_bytes_total",
			Help:      "Bytes read from request input streams.",
		}),
		readCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_calls_total",
			Help:      "Calls to InputStream.Read.",
		}),
		readWaits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_waits_total",
			Help:      "Times the read loop paused on a not-ready input stream.",
		}),
		writeBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_bytes_total",
			Help:      "Bytes written to response output streams.",
		}),
		writeCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_calls_total",
			Help:      "Calls to OutputStream.Write.",
		}),
		writeWaits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_waits_total",
			Help:      "Times the write loop paused on a not-ready output stream.",
		}),
		containerExc: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "container_exceptions_total",
			Help:      "Panics caught from a guarded container call.",
		}),
		asyncExc: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "async_exceptions_total",
			Help:      "Async-transaction errors reported by the container (read/write/async error callbacks).",
		}),
		serviceExc: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_exceptions_total",
			Help:      "Application errors/panics surfaced through the reactive evaluator.",
		}),
		timeoutExc: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timeout_exceptions_total",
			Help:      "Tasks that hit the container-delegated timeout.",
		}),
		methodTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_by_method_total",
			Help:      "Requests seen, by HTTP method.",
		}, []string{"method"}),
		statusTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_by_status_total",
			Help:      "Responses written, by HTTP status code.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		p.tasksActive, p.taskDuration,
		p.readBytes, p.readCalls, p.readWaits,
		p.writeBytes, p.writeCalls, p.writeWaits,
		p.containerExc, p.asyncExc, p.serviceExc, p.timeoutExc,
		p.methodTotal, p.statusTotal,
	)
	return p
}

func (p *Prometheus) TaskStarted()                    { p.tasksActive.Inc() }
func (p *Prometheus) TaskEnded(d time.Duration)        { p.tasksActive.Dec(); p.taskDuration.Observe(d.Seconds()) }
func (p *Prometheus) ReadBytes(n int)                 { p.readBytes.Add(float64(n)) }
func (p *Prometheus) ReadCall()                        { p.readCalls.Inc() }
func (p *Prometheus) ReadWait()                        { p.readWaits.Inc() }
func (p *Prometheus) WriteBytes(n int)                { p.writeBytes.Add(float64(n)) }
func (p *Prometheus) WriteCall()                       { p.writeCalls.Inc() }
func (p *Prometheus) WriteWait()                       { p.writeWaits.Inc() }
func (p *Prometheus) ContainerException()              { p.containerExc.Inc() }
func (p *Prometheus) AsyncException()                  { p.asyncExc.Inc() }
func (p *Prometheus) ServiceException()                { p.serviceExc.Inc() }
func (p *Prometheus) TimeoutException()                { p.timeoutExc.Inc() }
// Method buckets anything outside the seven recognized HTTP methods as
// "OTHER", bounding the requests_by_method_total series cardinality.
func (p *Prometheus) Method(method string) {
	if !knownMethods[method] {
		method = "OTHER"
	}
	p.methodTotal.WithLabelValues(method).Inc()
}

// Status buckets any code outside [100, 599] as "other", bounding the
// responses_by_status_total series cardinality.
func (p *Prometheus) Status(code int) {
	bucket := "other"
	if code >= 100 && code <= 599 {
		bucket = strconv.Itoa(code)
	}
	p.statusTotal.WithLabelValues(bucket).Inc()
}

var _ hookless.Metrics = (*Prometheus)(nil)
