// Package lazy compiles a GraphQL query once and executes it many times.
//
// New parses and validates a query against a Schema and returns an Executor,
// or fails immediately with the parser's syntax error or a *ValidationError
// listing every rule violation. Calls never parse or validate again:
//
//	exec, err := lazy.New(s, `query($id: ID!) { user(id: $id) { name } }`)
//	if err != nil {
//		return err
//	}
//	res, err := exec.Do(ctx, lazy.Inputs{VariableValues: vars}).Await(ctx)
//
// Every call reports through one channel. Do returns a Future that starts at
// once; Stream returns a cold single-value sequence that runs only when
// ranged over. Strategy panics, rejected or deferred outcomes and, per the
// ErrorPolicy, GraphQL errors in the result all arrive as the call's error.
package lazy
