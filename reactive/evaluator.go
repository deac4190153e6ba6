package reactive

import "github.com/hookless-go/hookless"

// Evaluator runs a thunk to completion exactly once on the given executor.
// It does not itself detect draft values or re-invoke the thunk; handlers
// that need a "retry until ready" shape compose it from a Var (var.go) and
// Retry (also in var.go).
type Evaluator struct{}

// NewEvaluator returns the default Evaluator.
func NewEvaluator() *Evaluator { return &Evaluator{} }

// Evaluate implements hookless.Evaluator.
func (Evaluator) Evaluate(thunk func() *hookless.Response, executor hookless.Executor) hookless.Future {
	f := newFuture()
	executor.Execute(func() { f.run(thunk) })
	return f
}

var _ hookless.Evaluator = Evaluator{}
