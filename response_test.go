package hookless_test

import (
	"net/http"
	"testing"

	"github.com/hookless-go/hookless"
)

func TestNewResponseDefaults(t *testing.T) {
	resp := hookless.NewResponse()
	if resp.Status != 200 {
		t.Errorf("got Status=%d, want 200", resp.Status)
	}
	if resp.Data.Len() != 0 {
		t.Errorf("got Data.Len()=%d, want 0", resp.Data.Len())
	}
}

func TestResponseWithStatus(t *testing.T) {
	resp := hookless.NewResponse().WithStatus(http.StatusCreated)
	if resp.Status != http.StatusCreated {
		t.Errorf("got Status=%d, want 201", resp.Status)
	}
}

func TestResponseWithHeader(t *testing.T) {
	resp := hookless.NewResponse().WithHeader("Content-Type", "application/json")
	got, ok := resp.Headers.Get("content-type")
	if !ok || got != "application/json" {
		t.Fatalf("got (%q, %v), want (%q, true)", got, ok, "application/json")
	}
}

func TestResponseWithCookieAppends(t *testing.T) {
	resp := hookless.NewResponse().
		WithCookie(&http.Cookie{Name: "a", Value: "1"}).
		WithCookie(&http.Cookie{Name: "b", Value: "2"})

	if len(resp.Cookies) != 2 {
		t.Fatalf("got %d cookies, want 2", len(resp.Cookies))
	}
	if resp.Cookies[0].Name != "a" || resp.Cookies[1].Name != "b" {
		t.Errorf("cookies out of order: %+v", resp.Cookies)
	}
}

func TestResponseWithDataSetsFullWindow(t *testing.T) {
	resp := hookless.NewResponse().WithData([]byte("payload"))
	if resp.Data.Len() != len("payload") {
		t.Errorf("got Data.Len()=%d, want %d", resp.Data.Len(), len("payload"))
	}

	buf := make([]byte, resp.Data.Len())
	resp.Data.Next(buf)
	if string(buf) != "payload" {
		t.Errorf("got %q, want payload", buf)
	}
}

func TestResponseBuilderChainReturnsSameReceiver(t *testing.T) {
	base := hookless.NewResponse()
	chained := base.WithStatus(204).WithHeader("X-A", "1")
	if chained != base {
		t.Error("expected fluent setters to return the same *Response")
	}
}
