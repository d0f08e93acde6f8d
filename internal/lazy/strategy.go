package lazy

import (
	"context"

	"github.com/hanpama/lazygraph/internal/executor"
	language "github.com/hanpama/lazygraph/internal/language"
)

// Result is the data and errors of one execution.
type Result = executor.ExecutionResult

// Params is what an execution strategy receives on each call: the schema, the
// compiled document and the call's inputs with defaults applied.
type Params struct {
	Schema         *Schema
	Document       *language.QueryDocument
	RootValue      any
	ContextValue   any
	VariableValues map[string]any
	OperationName  string
}

// ExecuteFunc executes a compiled document. DefaultExecute runs the engine;
// callers may substitute their own to add batching, tracing or federation.
type ExecuteFunc func(ctx context.Context, p Params) Outcome

type outcomeKind uint8

const (
	outcomeUnset outcomeKind = iota
	outcomeResolved
	outcomeDeferred
	outcomeRejected
)

// Outcome is what an ExecuteFunc returns: a result available now, a Future
// completing later, or a failure.
type Outcome struct {
	kind   outcomeKind
	result *Result
	future *Future
	err    error
}

// Resolved wraps a result that is already available.
func Resolved(r *Result) Outcome { return Outcome{kind: outcomeResolved, result: r} }

// Deferred wraps a result that f will deliver.
func Deferred(f *Future) Outcome { return Outcome{kind: outcomeDeferred, future: f} }

// Rejected wraps a failure of the strategy itself.
func Rejected(err error) Outcome { return Outcome{kind: outcomeRejected, err: err} }

// DefaultExecute runs the document on the schema's engine.
func DefaultExecute(ctx context.Context, p Params) Outcome {
	return Resolved(p.Schema.engine.ExecuteRequest(ctx, executor.Request{
		Document:       p.Document,
		OperationName:  p.OperationName,
		VariableValues: p.VariableValues,
		RootValue:      p.RootValue,
		ContextValue:   p.ContextValue,
	}))
}
