package hookless

import (
	"context"
	"errors"
	"fmt"
)

// faultKind classifies why a Task is terminating, in the same spirit as an
// RPC error-code/transformer pair, repurposed here for Task-internal fault
// classification instead of an RPC error envelope.
type faultKind int

const (
	// faultApplication is an arbitrary error/panic surfaced through the
	// reactive future's exceptional completion.
	faultApplication faultKind = iota
	// faultCanceled is the future completing exceptionally because the
	// Task itself cancelled it (e.g. on timeout); it must not trigger the
	// 500 fail path.
	faultCanceled
	// faultContainer is a guarded container I/O call throwing.
	faultContainer
)

func (k faultKind) String() string {
	switch k {
	case faultApplication:
		return "application"
	case faultCanceled:
		return "canceled"
	case faultContainer:
		return "container"
	default:
		return "unknown"
	}
}

// taskFault wraps an underlying error with its classification.
type taskFault struct {
	kind faultKind
	err  error
}

func newFault(kind faultKind, err error) *taskFault {
	return &taskFault{kind: kind, err: err}
}

func (f *taskFault) Error() string {
	return fmt.Sprintf("hookless: %s fault: %v", f.kind, f.err)
}

func (f *taskFault) Unwrap() error { return f.err }

// asError coerces a recover()ed panic value into an error: passed through
// unchanged if it already is one (the common case, since guarded calls
// panic(err)), else formatted, so a guarded container call's panic(“plain
// string”) still produces a usable taskFault.
func asError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// classifyEvalFault determines whether an error observed from the reactive
// evaluator's future represents a Task-initiated cancellation or an
// application fault, by checking errors.Is against the standard
// context.Canceled sentinel.
func classifyEvalFault(err error) faultKind {
	if errors.Is(err, context.Canceled) {
		return faultCanceled
	}
	return faultApplication
}
