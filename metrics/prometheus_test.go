package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusCountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "hookless_test")

	p.TaskStarted()
	p.Method("GET")
	p.ReadCall()
	p.ReadBytes(10)
	p.WriteCall()
	p.WriteBytes(20)
	p.Status(200)
	p.TaskEnded(5 * time.Millisecond)

	if got := testutil.ToFloat64(p.methodTotal.WithLabelValues("GET")); got != 1 {
		t.Errorf("got method counter %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.statusTotal.WithLabelValues("200")); got != 1 {
		t.Errorf("got status counter %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.readBytes); got != 10 {
		t.Errorf("got read bytes %v, want 10", got)
	}
	if got := testutil.ToFloat64(p.tasksActive); got != 0 {
		t.Errorf("got active tasks %v, want 0 after TaskEnded", got)
	}
}

func TestPrometheusMethodBucketsUnknownMethodsAsOther(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "hookless_test")

	p.Method("PROPFIND")
	p.Method("CONNECT")

	if got := testutil.ToFloat64(p.methodTotal.WithLabelValues("OTHER")); got != 2 {
		t.Errorf("got OTHER method counter %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.methodTotal.WithLabelValues("PROPFIND")); got != 0 {
		t.Errorf("got PROPFIND method counter %v, want 0 (should not create its own series)", got)
	}
}

func TestPrometheusMethodRecognizesAllSevenMethods(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "hookless_test")

	for _, m := range []string{"GET", "HEAD", "OPTIONS", "POST", "PUT", "DELETE", "PATCH"} {
		p.Method(m)
	}

	for _, m := range []string{"GET", "HEAD", "OPTIONS", "POST", "PUT", "DELETE", "PATCH"} {
		if got := testutil.ToFloat64(p.methodTotal.WithLabelValues(m)); got != 1 {
			t.Errorf("got %s method counter %v, want 1", m, got)
		}
	}
	if got := testutil.ToFloat64(p.methodTotal.WithLabelValues("OTHER")); got != 0 {
		t.Errorf("got OTHER method counter %v, want 0", got)
	}
}

func TestPrometheusStatusBucketsOutOfRangeCodeAsOther(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "hookless_test")

	p.Status(99)
	p.Status(600)
	p.Status(0)

	if got := testutil.ToFloat64(p.statusTotal.WithLabelValues("other")); got != 3 {
		t.Errorf("got other status counter %v, want 3", got)
	}
}

func TestPrometheusStatusKeepsExactCodeInRange(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "hookless_test")

	p.Status(100)
	p.Status(599)

	if got := testutil.ToFloat64(p.statusTotal.WithLabelValues("100")); got != 1 {
		t.Errorf("got 100 status counter %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.statusTotal.WithLabelValues("599")); got != 1 {
		t.Errorf("got 599 status counter %v, want 1", got)
	}
}

func TestPrometheusFaultCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "hookless_test")

	p.ContainerException()
	p.AsyncException()
	p.ServiceException()
	p.TimeoutException()

	if got := testutil.ToFloat64(p.containerExc); got != 1 {
		t.Errorf("got container exceptions %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.asyncExc); got != 1 {
		t.Errorf("got async exceptions %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.serviceExc); got != 1 {
		t.Errorf("got service exceptions %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.timeoutExc); got != 1 {
		t.Errorf("got timeout exceptions %v, want 1", got)
	}
}
