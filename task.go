package hookless

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Task is the per-request asynchronous transaction state machine. It
// coordinates four independent event sources — container lifecycle events
// (error, timeout, completion), non-blocking input-stream readiness,
// non-blocking output-stream writability, and reactive-evaluation
// completion — into a single-writer state machine with at-most-once
// response delivery and bounded lifetime.
//
// Every externally-visible method acquires mu for its entire body, so at
// most one callback runs at a time regardless of which pool it arrived
// from. A Task is never exposed outside this package; Servlet.Serve
// retains it only through the callback registrations made in start.
type Task struct {
	mu sync.Mutex

	servlet   *Servlet
	container Container
	exch      Exchange
	logger    *slog.Logger
	metrics   Metrics

	async AsyncContext

	completed bool
	responded bool
	executed  bool

	future Future

	ctx    context.Context
	cancel context.CancelFunc

	rrequest *Request
	bodyBuf  []byte
	readBuf  []byte

	dataOut  ByteWindow
	writeBuf []byte

	startedAt time.Time
}

func newTask(s *Servlet, container Container, exch Exchange) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	return &Task{
		servlet:   s,
		container: container,
		exch:      exch,
		logger:    s.logSink(),
		metrics:   s.metricsOrDefault(),
		readBuf:   make([]byte, s.config.ReadBufferSize),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// start activates async mode, converts the raw request, and kicks off the
// read loop. Initial -> Reading.
func (t *Task) start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startedAt = time.Now()
	t.metrics.TaskStarted()

	t.async = t.container.StartAsync(t.exch)
	t.async.OnError(t.onAsyncError)
	t.async.OnTimeout(t.onTimeout)
	t.async.OnComplete(t.onAsyncComplete)

	if !t.guard(func() {
		req, err := FromRawRequest(t.exch.RawRequest())
		if err != nil {
			panic(err)
		}
		req.WithContext(t.ctx)
		t.rrequest = req
		t.metrics.Method(req.Method)
	}) {
		return
	}

	in := t.exch.Input()
	in.OnReadable(t.onReadable)
	in.OnError(t.onReadError)

	t.continueReading()
}

func (t *Task) onAsyncComplete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger.Debug("async transaction reported complete")
}

func (t *Task) onAsyncError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger.Debug("async transaction error", slog.Any("error", err))
	t.die()
}

func (t *Task) onTimeout() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.completed {
		return
	}
	t.metrics.TimeoutException()

	if !t.responded {
		t.responded = true
		t.metrics.Status(http.StatusGatewayTimeout)
		t.guard(func() {
			raw := t.exch.RawResponse()
			raw.SetStatus(http.StatusGatewayTimeout)
			raw.SetHeader("Cache-Control", noCacheNoStore)
		})
	}
	t.terminate()
}

// guard runs fn, catching any panic it raises — this codebase's idiom for
// "a container call that may itself throw". On panic it logs at debug,
// counts a container exception, and terminates the Task. Must be called
// with mu already held; only recovers a panic from fn's own synchronous
// execution, not one escaping on another goroutine.
func (t *Task) guard(fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			fault := newFault(faultContainer, asError(r))
			t.logger.Debug("guarded container call failed", slog.Any("error", fault))
			t.metrics.ContainerException()
			t.terminate()
			ok = false
		}
	}()
	fn()
	return true
}

// die is the abort path for container-reported errors (read error, write
// error, async error): cancel the future if started, terminate, count an
// async exception. It never attempts to write a response.
func (t *Task) die() {
	if t.completed {
		return
	}
	t.terminate()
	t.metrics.AsyncException()
}

// terminate marks the Task completed, stops its timers, and tells the
// container the transaction is over. It is idempotent and is the single
// path by which completed becomes true.
func (t *Task) terminate() {
	if t.completed {
		return
	}
	if t.future != nil {
		t.future.Cancel()
	}
	t.cancel()
	t.completed = true
	t.metrics.TaskEnded(time.Since(t.startedAt))
	t.safeCompleteAsync()
}

func (t *Task) safeCompleteAsync() {
	defer func() { recover() }()
	t.async.Complete()
}

// continueReading drives the non-blocking read loop. Called from start and
// from every read-readiness callback.
func (t *Task) continueReading() {
	if t.completed || t.executed {
		return
	}

	in := t.exch.Input()
	for {
		if in.IsFinished() {
			t.enterEvaluating()
			return
		}
		if !in.IsReady() {
			t.metrics.ReadWait()
			return
		}

		n, ok := t.guardedRead(in)
		if !ok {
			return
		}
		t.metrics.ReadCall()
		if n > 0 {
			t.bodyBuf = append(t.bodyBuf, t.readBuf[:n]...)
			t.metrics.ReadBytes(n)
		}
		// n == -1 (or 0): no bytes produced yet; loop re-checks finished/ready.
	}
}

func (t *Task) guardedRead(in InputStream) (n int, ok bool) {
	ok = t.guard(func() {
		var err error
		n, err = in.Read(t.readBuf)
		if err != nil {
			panic(err)
		}
	})
	return n, ok
}

func (t *Task) onReadable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.continueReading()
}

func (t *Task) onReadError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger.Debug("read stream error", slog.Any("error", err))
	t.die()
}

// enterEvaluating closes the input stream, installs the accumulated body,
// and hands the Request to the reactive evaluator. Reading -> Evaluating.
func (t *Task) enterEvaluating() {
	if !t.guard(func() {
		if err := t.exch.Input().Close(); err != nil {
			panic(err)
		}
	}) {
		return
	}

	t.rrequest.Data = t.bodyBuf
	t.bodyBuf = nil
	t.readBuf = nil
	t.executed = true

	req := t.rrequest
	thunk := func() *Response { return t.servlet.Service(req) }

	fut := t.servlet.evaluator.Evaluate(thunk, t.servlet.executorOrDefault())
	t.future = fut
	var registered atomic.Bool
	fut.OnDone(func(resp *Response, err error) {
		if !registered.Load() {
			// Already complete: OnDone is running fn on this goroutine,
			// which holds mu.
			go t.onEvalDone(resp, err)
			return
		}
		t.onEvalDone(resp, err)
	})
	registered.Store(true)
}

// onEvalDone is the reactive future's completion handler. It fires
// synchronously on the executor the evaluator ran service on (or, if the
// future had already completed when enterEvaluating registered it, on a new
// goroutine), so it takes the Task's own lock before deciding anything,
// exactly like every other callback. Evaluating -> Writing (normal) or Evaluating -> Terminal
// (fail/cancelled).
func (t *Task) onEvalDone(resp *Response, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.completed {
		return
	}

	if err != nil {
		if classifyEvalFault(err) == faultCanceled {
			// The timeout path already decided what, if anything, to write.
			return
		}
		t.logger.Error("service invocation failed", slog.Any("error", err))
		t.metrics.ServiceException()
		t.guard(func() {
			t.async.Schedule(func() { t.deliverStatusOnly(http.StatusInternalServerError) })
		})
		return
	}

	t.guard(func() {
		t.async.Schedule(func() { t.produceResponse(resp) })
	})
}

// deliverStatusOnly writes a status-only response (used for the 500 fail
// path) from within the scheduled continuation on the container pool.
func (t *Task) deliverStatusOnly(code int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.completed || t.responded {
		return
	}
	t.responded = true
	t.metrics.Status(code)

	t.guard(func() {
		raw := t.exch.RawResponse()
		raw.SetStatus(code)
		raw.SetHeader("Cache-Control", noCacheNoStore)
	})
	t.terminate()
}

// produceResponse writes status, headers, and cookies, then begins the
// write loop. Runs inside the scheduled continuation on the container
// pool. Evaluating -> Writing.
func (t *Task) produceResponse(resp *Response) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.completed || t.responded {
		return
	}
	t.responded = true
	t.metrics.Status(resp.Status)

	if !t.guard(func() {
		raw := t.exch.RawResponse()
		raw.SetStatus(resp.Status)
		resp.Headers.Range(func(key, value string) {
			raw.SetHeader(key, value)
		})
		for _, c := range resp.Cookies {
			raw.AddCookie(c)
		}
	}) {
		return
	}

	t.dataOut = resp.Data.Duplicate()
	t.beginWriting()
}

func (t *Task) beginWriting() {
	out := t.exch.Output()
	out.OnWritable(t.onWritable)
	out.OnError(t.onWriteError)
	t.continueWriting()
}

// continueWriting drives the non-blocking write loop. Called from
// beginWriting and from every write-readiness callback. Writing -> Writing
// or Writing -> Terminal.
func (t *Task) continueWriting() {
	if t.completed {
		return
	}

	out := t.exch.Output()
	for {
		if t.dataOut.Len() == 0 {
			t.terminate()
			return
		}
		if !out.IsReady() {
			t.metrics.WriteWait()
			return
		}

		if t.writeBuf == nil {
			size := t.servlet.config.WriteBufferCap
			if rem := t.dataOut.Len(); rem < size {
				size = rem
			}
			t.writeBuf = make([]byte, size)
		}

		n := t.dataOut.Next(t.writeBuf)
		if !t.guardedWrite(out, t.writeBuf[:n]) {
			return
		}
		t.metrics.WriteCall()
		t.metrics.WriteBytes(n)
	}
}

func (t *Task) guardedWrite(out OutputStream, buf []byte) bool {
	return t.guard(func() {
		if _, err := out.Write(buf); err != nil {
			panic(err)
		}
	})
}

func (t *Task) onWritable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.continueWriting()
}

func (t *Task) onWriteError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger.Debug("write stream error", slog.Any("error", err))
	t.die()
}
