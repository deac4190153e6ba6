package hookless_test

import (
	"testing"

	"github.com/hookless-go/hookless"
)

func TestHeadersSetGetCaseInsensitive(t *testing.T) {
	h := hookless.NewHeaders()
	h.Set("Content-Type", "text/plain")

	got, ok := h.Get("content-type")
	if !ok || got != "text/plain" {
		t.Fatalf("got (%q, %v), want (%q, true)", got, ok, "text/plain")
	}
}

func TestHeadersSetReplacesExistingUnderAnyCase(t *testing.T) {
	h := hookless.NewHeaders()
	h.Set("X-Token", "first")
	h.Set("x-token", "second")

	if h.Len() != 1 {
		t.Fatalf("got Len()=%d, want 1", h.Len())
	}
	got, _ := h.Get("X-TOKEN")
	if got != "second" {
		t.Errorf("got %q, want %q", got, "second")
	}
}

func TestHeadersAddFusesRepeatedValues(t *testing.T) {
	h := hookless.NewHeaders()
	h.Add("Accept", "text/html")
	h.Add("accept", "application/json")

	got, ok := h.Get("Accept")
	if !ok {
		t.Fatal("expected Accept to be present")
	}
	if want := "text/html, application/json"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHeadersRangePreservesFirstSeenCase(t *testing.T) {
	h := hookless.NewHeaders()
	h.Set("X-Custom-Name", "v1")
	h.Set("x-custom-name", "v2")

	var sawName, sawValue string
	h.Range(func(key, value string) {
		sawName, sawValue = key, value
	})
	if sawName != "X-Custom-Name" {
		t.Errorf("got key %q, want first-seen case %q", sawName, "X-Custom-Name")
	}
	if sawValue != "v2" {
		t.Errorf("got value %q, want %q", sawValue, "v2")
	}
}

func TestHeadersGetMissingReturnsFalse(t *testing.T) {
	h := hookless.NewHeaders()
	if _, ok := h.Get("Missing"); ok {
		t.Error("expected ok=false for a missing header")
	}
}

func TestHeadersZeroValueGetIsSafe(t *testing.T) {
	var h hookless.Headers
	if _, ok := h.Get("Anything"); ok {
		t.Error("expected ok=false on the zero value")
	}
	if h.Len() != 0 {
		t.Errorf("got Len()=%d on zero value, want 0", h.Len())
	}
}

func TestHeadersZeroValueSetSelfInitializes(t *testing.T) {
	var h hookless.Headers
	h.Set("X-Init", "ok")

	got, ok := h.Get("X-Init")
	if !ok || got != "ok" {
		t.Fatalf("got (%q, %v), want (%q, true)", got, ok, "ok")
	}
}
