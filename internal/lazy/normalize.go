package lazy

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/hanpama/lazygraph/internal/eventbus"
	"github.com/hanpama/lazygraph/internal/events"
	language "github.com/hanpama/lazygraph/internal/language"
	"github.com/hanpama/lazygraph/internal/reqid"
)

var (
	errNilResult    = errors.New("lazy: execution strategy returned no result")
	errEmptyOutcome = errors.New("lazy: execution strategy returned an empty outcome")
	errNilFuture    = errors.New("lazy: execution strategy deferred to a nil future")
)

// Do starts executing the compiled document with in and returns its Future.
// Every failure of the call, including panics, is delivered through the
// Future.
func (e *Executor) Do(ctx context.Context, in Inputs) *Future {
	return NewFuture(func() (*Result, error) { return e.run(ctx, in) })
}

// run executes one call and reports it on the event bus. A panic anywhere in
// the call, event subscribers included, becomes a *PanicError.
func (e *Executor) run(ctx context.Context, in Inputs) (res *Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			res, err = nil, &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()

	ctx, _ = reqid.Ensure(ctx)
	in = in.withDefaults()
	opType := operationType(e.doc, in.OperationName)

	eventbus.Publish(ctx, events.GraphQLStart{
		Query:         e.source,
		OperationName: in.OperationName,
		OperationType: opType,
	})
	start := time.Now()

	res, err = e.settle(ctx, in)

	finish := events.GraphQLFinish{
		Query:         e.source,
		OperationName: in.OperationName,
		OperationType: opType,
		Err:           err,
		Duration:      time.Since(start),
	}
	var execErr *ExecutionError
	switch {
	case res != nil:
		finish.Errors = resultErrors(res)
	case errors.As(err, &execErr):
		finish.Errors = resultErrors(execErr.Result)
	}
	eventbus.Publish(ctx, finish)
	return res, err
}

// settle runs the strategy and reduces its outcome to a result or a failure.
func (e *Executor) settle(ctx context.Context, in Inputs) (res *Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			res, err = nil, &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()

	out := e.execute(ctx, Params{
		Schema:         e.schema,
		Document:       e.doc,
		RootValue:      in.RootValue,
		ContextValue:   in.ContextValue,
		VariableValues: in.VariableValues,
		OperationName:  in.OperationName,
	})

	switch out.kind {
	case outcomeResolved:
		res = out.result
	case outcomeDeferred:
		if out.future == nil {
			return nil, errNilFuture
		}
		if res, err = out.future.Await(ctx); err != nil {
			return nil, err
		}
	case outcomeRejected:
		if out.err == nil {
			return nil, errNilResult
		}
		return nil, out.err
	default:
		return nil, errEmptyOutcome
	}

	if res == nil {
		return nil, errNilResult
	}
	if err := e.policy.check(res); err != nil {
		return nil, err
	}
	return res, nil
}

func resultErrors(res *Result) []error {
	if res == nil || len(res.Errors) == 0 {
		return nil
	}
	out := make([]error, len(res.Errors))
	for i, e := range res.Errors {
		out[i] = e
	}
	return out
}

// operationType names the kind of the operation a call selects, or "" when
// the name selects nothing.
func operationType(doc *language.QueryDocument, name string) string {
	if name == "" {
		if len(doc.Operations) == 1 {
			return string(doc.Operations[0].Operation)
		}
		return ""
	}
	if op := doc.Operations.ForName(name); op != nil {
		return string(op.Operation)
	}
	return ""
}
