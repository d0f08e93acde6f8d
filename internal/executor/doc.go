// Package executor implements a breadth-first, batch-friendly GraphQL executor
// with explicit runtime hooks for synchronous resolution, depth-wise batching of
// asynchronous work, abstract-type resolution, and leaf serialization.
//
// # Preparation
//
// For every request the executor:
//  1. Chooses the operation, by name or by uniqueness when unnamed.
//  2. Coerces the provided variables against the operation's variable
//     definitions. Errors here stop execution and yield a result without data.
//  3. Picks the root object type for the operation kind.
//
// The document is assumed to be already validated against the schema; the
// executor does not validate it again.
//
// # Execution Model
//
// Fields are classified by schema.Field.Async:
//
//   - Synchronous fields resolve immediately via Runtime.ResolveSync and are
//     completed in place. Their object subfields keep expanding without adding
//     batch depth.
//   - Asynchronous fields are queued as AsyncResolveTask values. Once the
//     current depth has been fully expanded, all queued tasks are resolved by a
//     single Runtime.BatchResolveAsync call, and their completions may queue the
//     next depth.
//
// For a document whose asynchronous depth is d, BatchResolveAsync is invoked
// exactly d times.
//
// # Value Completion
//
//   - Non-Null: a null inner value records an error and propagates null to the
//     nearest nullable ancestor. Queued tasks beneath that ancestor are dropped.
//   - List: items complete with index-aware paths. A null item of a Non-Null
//     item type nulls the whole list.
//   - Leaf: Runtime.SerializeLeafValue produces the output value. Enum outputs
//     must name a declared value.
//   - Abstract: Runtime.ResolveType names the concrete object type, which must
//     be a possible type of the interface or union.
//
// Fragment type conditions match the concrete object type itself, any
// interface it implements, and any union containing it.
//
// # Errors
//
// Errors are accumulated as located GraphQL errors (message, source locations,
// path) while the rest of the response completes. Panics raised by the runtime
// are recovered and reported the same way.
package executor
