package executor

import (
	"context"
)

// Runtime is the host integration surface the Executor resolves fields
// through.
//
// General contract
//   - The Executor performs a breadth-first execution. At each depth it drains
//     all synchronous fields first via ResolveSync, then calls
//     BatchResolveAsync ONCE with all async tasks collected at that depth.
//   - ResolveSync is never invoked for fields marked async, and
//     BatchResolveAsync is only invoked with at least one task.
//   - Errors returned from any method, and panics raised by them, become
//     located GraphQL errors. Non-Null fields propagate the null upwards.
//   - The Executor may call these methods concurrently for different
//     requests, so implementations must be safe for concurrent use and must
//     not mutate source or args values.
//
// Object/field identifiers
//   - objectType is the GraphQL type name (e.g. "User"); for root fields it is
//     the root type name (e.g. "Query").
//   - source is the parent object value; for root fields it is the request's
//     root value.
//   - args holds already-coerced argument values.
//
// The per-request context value is available to every method through
// ContextValue(ctx).
type Runtime interface {
	// ResolveSync resolves a synchronous field value immediately.
	// Return (nil, nil) to produce a GraphQL null for nullable fields.
	ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error)

	// BatchResolveAsync resolves one execution depth of async field tasks.
	//
	// Requirements:
	// - Return len(results) == len(tasks).
	// - results[i] corresponds to tasks[i].
	// - Report failures per element without failing the whole batch.
	BatchResolveAsync(ctx context.Context, tasks []AsyncResolveTask) []AsyncResolveResult

	// ResolveType determines the concrete object type name for a value of an
	// abstract type (interface or union).
	ResolveType(ctx context.Context, abstractType string, value any) (string, error)

	// SerializeLeafValue serializes a scalar or enum value to a JSON-safe Go
	// value. Enums serialize to their symbolic name.
	SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error)
}

type AsyncResolveTask struct {
	// ObjectType is the parent GraphQL object type name for the field.
	ObjectType string
	// Field is the GraphQL field name to resolve.
	Field string
	// Source is the parent object value.
	Source any
	// Args are the field arguments, coerced to Go values per the schema.
	Args map[string]any
}

type AsyncResolveResult struct {
	// Value is the resolved raw value prior to completion, or nil on error.
	Value any
	// Error contains a failure specific to this element.
	Error error
}

type contextValueKey struct{}

// WithContextValue returns a copy of ctx carrying the request's context value.
func WithContextValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, contextValueKey{}, v)
}

// ContextValue returns the context value of the request being executed, or
// nil when none was supplied.
func ContextValue(ctx context.Context) any {
	return ctx.Value(contextValueKey{})
}
