package hookless_test

import (
	"net/http"
	"testing"

	"github.com/hookless-go/hookless"
	"github.com/hookless-go/hookless/hooklesstest"
)

func TestNewRequestDefaults(t *testing.T) {
	req := hookless.NewRequest()
	if req.Method != "GET" {
		t.Errorf("got Method=%q, want GET", req.Method)
	}
	if req.HasURL() {
		t.Error("expected a fresh Request to have no URL")
	}
	if req.Data != nil {
		t.Errorf("got Data=%v, want nil", req.Data)
	}
}

func TestRequestURLPanicsBeforeWithURL(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected URL() to panic before WithURL is called")
		}
	}()
	hookless.NewRequest().URL()
}

func TestRequestWithMethodUppercases(t *testing.T) {
	req := hookless.NewRequest().WithMethod("post")
	if req.Method != "POST" {
		t.Errorf("got Method=%q, want POST", req.Method)
	}
}

func TestFromRawRequestParsesURLAndQuery(t *testing.T) {
	_, exch := hooklesstest.NewRequest().GET("/widgets").Query("page=2").Build()

	req, err := hookless.FromRawRequest(exch.RawRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.URL().Path != "/widgets" {
		t.Errorf("got Path=%q, want /widgets", req.URL().Path)
	}
	if req.URL().RawQuery != "page=2" {
		t.Errorf("got RawQuery=%q, want page=2", req.URL().RawQuery)
	}
}

func TestFromRawRequestFoldsMultipleHeaderValues(t *testing.T) {
	_, exch := hooklesstest.NewRequest().GET("/").
		WithHeader("Accept", "text/html").
		WithHeader("Accept", "application/json").
		Build()

	req, err := hookless.FromRawRequest(exch.RawRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := req.Headers.Get("Accept")
	if !ok {
		t.Fatal("expected Accept header to be present")
	}
	if want := "text/html, application/json"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFromRawRequestDefaultsEmptyPathToSlash(t *testing.T) {
	_, exch := hooklesstest.NewRequest().GET("").Build()

	req, err := hookless.FromRawRequest(exch.RawRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.URL().Path != "/" {
		t.Errorf("got Path=%q, want /", req.URL().Path)
	}
}

func TestFromRawRequestUppercasesMethod(t *testing.T) {
	_, exch := hooklesstest.NewRequest().Method("post").Build()

	req, err := hookless.FromRawRequest(exch.RawRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != http.MethodPost {
		t.Errorf("got Method=%q, want POST", req.Method)
	}
}

func TestByteWindowNextAdvancesPosition(t *testing.T) {
	w := hookless.NewByteWindow([]byte("hello world"))
	if w.Len() != 11 {
		t.Fatalf("got Len()=%d, want 11", w.Len())
	}

	buf := make([]byte, 5)
	n := w.Next(buf)
	if n != 5 || string(buf) != "hello" {
		t.Fatalf("got (%d, %q), want (5, %q)", n, buf, "hello")
	}
	if w.Len() != 6 {
		t.Errorf("got Len()=%d after consuming 5, want 6", w.Len())
	}
}

func TestByteWindowDuplicateIsIndependent(t *testing.T) {
	w := hookless.NewByteWindow([]byte("abcdef"))
	dup := w.Duplicate()

	buf := make([]byte, 3)
	w.Next(buf)

	if dup.Len() != 6 {
		t.Errorf("got dup.Len()=%d after advancing the original, want 6", dup.Len())
	}
}
