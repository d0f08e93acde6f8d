package resolver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hanpama/lazygraph/internal/executor"
)

// Params carries one field invocation.
type Params struct {
	ObjectType string
	Field      string
	Source     any
	Args       map[string]any
}

// ResolveFunc resolves a single field value.
type ResolveFunc func(ctx context.Context, p Params) (any, error)

// BatchFunc resolves every task of one depth that targets the same field.
// It must return one value per item, in order. A returned error fails the
// whole group.
type BatchFunc func(ctx context.Context, items []Params) ([]any, error)

// TypeResolveFunc names the concrete object type of an abstract value.
type TypeResolveFunc func(ctx context.Context, value any) (string, error)

// SerializeFunc turns a scalar or enum value into its output form.
type SerializeFunc func(value any) (any, error)

// Option configures a Registry.
type Option func(*Registry)

// WithConcurrency bounds how many async resolutions of one depth run at the
// same time. n <= 0 means no limit.
func WithConcurrency(n int) Option {
	return func(r *Registry) { r.concurrency = n }
}

// Registry maps object fields to resolvers and implements executor.Runtime.
//
// Fields without a registered resolver are read from the source value: map
// keys, exported struct fields, or struct fields by json tag. Fields
// registered with SetAsyncResolver or SetBatchResolver are reported by
// IsAsync so the schema can route them through BatchResolveAsync.
//
// Registration is not synchronized; finish it before executing.
type Registry struct {
	inline      map[string]ResolveFunc
	async       map[string]ResolveFunc
	batch       map[string]BatchFunc
	types       map[string]TypeResolveFunc
	serializers map[string]SerializeFunc
	concurrency int
}

var _ executor.Runtime = (*Registry)(nil)

// New returns an empty registry. Async work defaults to GOMAXPROCS workers.
func New(opts ...Option) *Registry {
	r := &Registry{
		inline:      map[string]ResolveFunc{},
		async:       map[string]ResolveFunc{},
		batch:       map[string]BatchFunc{},
		types:       map[string]TypeResolveFunc{},
		serializers: map[string]SerializeFunc{},
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func key(objectType, field string) string { return objectType + "." + field }

// SetResolver registers a resolver that runs inline during expansion.
func (r *Registry) SetResolver(objectType, field string, fn ResolveFunc) *Registry {
	r.inline[key(objectType, field)] = fn
	return r
}

// SetAsyncResolver registers a resolver that is batched per depth and run
// concurrently with the other async fields of that depth.
func (r *Registry) SetAsyncResolver(objectType, field string, fn ResolveFunc) *Registry {
	r.async[key(objectType, field)] = fn
	return r
}

// SetBatchResolver registers a resolver that receives all tasks of one depth
// for the field in a single call.
func (r *Registry) SetBatchResolver(objectType, field string, fn BatchFunc) *Registry {
	r.batch[key(objectType, field)] = fn
	return r
}

// SetTypeResolver registers the concrete type resolver of an interface or union.
func (r *Registry) SetTypeResolver(abstractType string, fn TypeResolveFunc) *Registry {
	r.types[abstractType] = fn
	return r
}

// SetSerializer registers the output serializer of a scalar or enum type.
func (r *Registry) SetSerializer(typeName string, fn SerializeFunc) *Registry {
	r.serializers[typeName] = fn
	return r
}

// IsAsync reports whether the field resolves through BatchResolveAsync.
func (r *Registry) IsAsync(objectType, field string) bool {
	k := key(objectType, field)
	_, async := r.async[k]
	_, batch := r.batch[k]
	return async || batch
}

// ResolveSync resolves a field inline. Async-registered resolvers are called
// directly when the schema does not mark the field async.
func (r *Registry) ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error) {
	p := Params{ObjectType: objectType, Field: field, Source: source, Args: args}
	k := key(objectType, field)
	if fn, ok := r.inline[k]; ok {
		return fn(ctx, p)
	}
	if fn, ok := r.async[k]; ok {
		return fn(ctx, p)
	}
	if fn, ok := r.batch[k]; ok {
		values, err := callBatch(ctx, fn, []Params{p})
		if err != nil {
			return nil, err
		}
		return values[0], nil
	}
	return DefaultResolve(source, field)
}

// BatchResolveAsync resolves one depth of async tasks. Tasks are grouped by
// (objectType, field); batch resolvers get one call per group and single
// resolvers one call per task. Work runs concurrently up to the registry's
// concurrency limit, and results keep the task order.
func (r *Registry) BatchResolveAsync(ctx context.Context, tasks []executor.AsyncResolveTask) []executor.AsyncResolveResult {
	results := make([]executor.AsyncResolveResult, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	type group struct {
		key  string
		idxs []int
	}
	var groups []group
	idxByKey := map[string]int{}
	for i, t := range tasks {
		k := key(t.ObjectType, t.Field)
		if gi, ok := idxByKey[k]; ok {
			groups[gi].idxs = append(groups[gi].idxs, i)
			continue
		}
		idxByKey[k] = len(groups)
		groups = append(groups, group{key: k, idxs: []int{i}})
	}

	var g errgroup.Group
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}
	for _, gr := range groups {
		if fn, ok := r.batch[gr.key]; ok {
			g.Go(func() error {
				r.runBatchGroup(ctx, fn, tasks, gr.idxs, results)
				return nil
			})
			continue
		}
		for _, i := range gr.idxs {
			g.Go(func() error {
				results[i] = r.runSingle(ctx, tasks[i])
				return nil
			})
		}
	}
	_ = g.Wait()
	return results
}

// runSingle resolves one task, turning a panic into a task error.
func (r *Registry) runSingle(ctx context.Context, t executor.AsyncResolveTask) (res executor.AsyncResolveResult) {
	defer func() {
		if v := recover(); v != nil {
			res = executor.AsyncResolveResult{Error: fmt.Errorf("panic resolving %s.%s: %v", t.ObjectType, t.Field, v)}
		}
	}()
	if err := ctx.Err(); err != nil {
		return executor.AsyncResolveResult{Error: err}
	}
	v, err := r.ResolveSync(ctx, t.ObjectType, t.Field, t.Source, t.Args)
	return executor.AsyncResolveResult{Value: v, Error: err}
}

// runBatchGroup resolves a whole group with one batch call and writes the
// results into their task slots.
func (r *Registry) runBatchGroup(ctx context.Context, fn BatchFunc, tasks []executor.AsyncResolveTask, idxs []int, results []executor.AsyncResolveResult) {
	items := make([]Params, len(idxs))
	for j, i := range idxs {
		t := tasks[i]
		items[j] = Params{ObjectType: t.ObjectType, Field: t.Field, Source: t.Source, Args: t.Args}
	}
	values, err := callBatch(ctx, fn, items)
	for j, i := range idxs {
		if err != nil {
			results[i] = executor.AsyncResolveResult{Error: err}
			continue
		}
		results[i] = executor.AsyncResolveResult{Value: values[j]}
	}
}

func callBatch(ctx context.Context, fn BatchFunc, items []Params) (values []any, err error) {
	defer func() {
		if v := recover(); v != nil {
			values, err = nil, fmt.Errorf("panic resolving %s.%s: %v", items[0].ObjectType, items[0].Field, v)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	values, err = fn(ctx, items)
	if err != nil {
		return nil, err
	}
	if len(values) != len(items) {
		return nil, fmt.Errorf("batch resolver %s.%s returned %d values for %d items", items[0].ObjectType, items[0].Field, len(values), len(items))
	}
	return values, nil
}

// ResolveType uses the registered type resolver of abstractType, falling back
// to DefaultTypename.
func (r *Registry) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	if fn, ok := r.types[abstractType]; ok {
		return fn(ctx, value)
	}
	if name, ok := DefaultTypename(value); ok {
		return name, nil
	}
	return "", fmt.Errorf("cannot resolve concrete type of %s from %T", abstractType, value)
}

// SerializeLeafValue uses the registered serializer of typeName, falling back
// to the built-in scalar rules.
func (r *Registry) SerializeLeafValue(ctx context.Context, typeName string, value any) (any, error) {
	if fn, ok := r.serializers[typeName]; ok {
		return fn(value)
	}
	return SerializeBuiltin(typeName, value)
}
