package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func TestLogging_Success(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	loggingHandler := Logging(logger)(handler)

	req := httptest.NewRequest(http.MethodGet, "/widgets", nil)
	w := httptest.NewRecorder()
	loggingHandler.ServeHTTP(w, req)

	out := buf.String()
	if !strings.Contains(out, "request started") {
		t.Error("expected 'request started' in log output")
	}
	if !strings.Contains(out, "request completed") {
		t.Error("expected 'request completed' in log output")
	}
	if !strings.Contains(out, "/widgets") {
		t.Error("expected request path in log output")
	}
}

func TestLogging_ServerError(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	loggingHandler := Logging(logger)(handler)

	req := httptest.NewRequest(http.MethodGet, "/widgets", nil)
	w := httptest.NewRecorder()
	loggingHandler.ServeHTTP(w, req)

	out := buf.String()
	if !strings.Contains(out, "request failed") {
		t.Error("expected 'request failed' in log output")
	}
	if strings.Contains(out, "request completed") {
		t.Error("did not expect 'request completed' for a 500 response")
	}
}

func TestLogging_NilLogger(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	loggingHandler := Logging(nil)(handler)

	req := httptest.NewRequest(http.MethodGet, "/widgets", nil)
	w := httptest.NewRecorder()
	loggingHandler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestLogging_RecordsStatusAndDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	loggingHandler := Logging(logger)(handler)

	req := httptest.NewRequest(http.MethodPost, "/widgets", nil)
	w := httptest.NewRecorder()
	loggingHandler.ServeHTTP(w, req)

	out := buf.String()
	if !strings.Contains(out, `"status":201`) {
		t.Errorf("expected status 201 in log output, got %s", out)
	}
	if !strings.Contains(out, "duration") {
		t.Error("expected 'duration' in log output")
	}
}

func TestLogging_DefaultsStatusToOKWithoutExplicitWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	loggingHandler := Logging(logger)(handler)

	req := httptest.NewRequest(http.MethodGet, "/widgets", nil)
	w := httptest.NewRecorder()
	loggingHandler.ServeHTTP(w, req)

	out := buf.String()
	if !strings.Contains(out, `"status":200`) {
		t.Errorf("expected status 200 in log output, got %s", out)
	}
}

func TestLogging_PassesThroughResponseBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	})

	loggingHandler := Logging(nil)(handler)

	req := httptest.NewRequest(http.MethodGet, "/widgets", nil)
	w := httptest.NewRecorder()
	loggingHandler.ServeHTTP(w, req)

	if w.Body.String() != "hello" {
		t.Errorf("expected body %q, got %q", "hello", w.Body.String())
	}
}
