package reactive

import (
	"context"
	"errors"
	"testing"

	"github.com/hookless-go/hookless"
)

func TestEvaluatorCompletesWithThunkResult(t *testing.T) {
	want := hookless.NewResponse().WithStatus(204)
	var got *hookless.Response
	var gotErr error
	done := make(chan struct{})

	e := NewEvaluator()
	f := e.Evaluate(func() *hookless.Response { return want }, hookless.DefaultExecutor)
	f.OnDone(func(resp *hookless.Response, err error) {
		got, gotErr = resp, err
		close(done)
	})
	<-done

	if gotErr != nil {
		t.Fatalf("unexpected error: %v", gotErr)
	}
	if got != want {
		t.Errorf("got response %v, want %v", got, want)
	}
}

func TestEvaluatorRecoversPanic(t *testing.T) {
	var gotErr error
	done := make(chan struct{})

	e := NewEvaluator()
	f := e.Evaluate(func() *hookless.Response { panic("boom") }, hookless.DefaultExecutor)
	f.OnDone(func(resp *hookless.Response, err error) {
		gotErr = err
		close(done)
	})
	<-done

	if gotErr == nil {
		t.Fatal("expected an error from a panicking thunk")
	}
}

func TestFutureOnDoneAfterCompletionFiresImmediately(t *testing.T) {
	f := newFuture()
	f.complete(hookless.NewResponse(), nil)

	called := false
	f.OnDone(func(*hookless.Response, error) { called = true })
	if !called {
		t.Error("OnDone registered after completion should fire immediately")
	}
}

func TestFutureOnlyCompletesOnce(t *testing.T) {
	f := newFuture()
	calls := 0
	f.OnDone(func(*hookless.Response, error) { calls++ })

	f.complete(hookless.NewResponse().WithStatus(200), nil)
	f.complete(hookless.NewResponse().WithStatus(500), nil)

	if calls != 1 {
		t.Errorf("expected exactly one completion callback, got %d", calls)
	}
}

func TestFutureCancelBeforeThunkReturnsReportsCanceled(t *testing.T) {
	f := newFuture()
	started := make(chan struct{})
	release := make(chan struct{})

	go f.run(func() *hookless.Response {
		close(started)
		<-release
		return hookless.NewResponse()
	})

	<-started
	f.Cancel()
	close(release)

	var gotErr error
	done := make(chan struct{})
	f.OnDone(func(_ *hookless.Response, err error) {
		gotErr = err
		close(done)
	})
	<-done

	if !errors.Is(gotErr, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", gotErr)
	}
}

func TestFutureCancelAfterCompletionIsNoop(t *testing.T) {
	f := newFuture()
	f.complete(hookless.NewResponse().WithStatus(201), nil)
	f.Cancel() // must not panic or change the result

	var got *hookless.Response
	f.OnDone(func(resp *hookless.Response, _ error) { got = resp })
	if got == nil || got.Status != 201 {
		t.Errorf("cancel after completion must not alter the result, got %v", got)
	}
}
