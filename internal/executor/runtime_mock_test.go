package executor

import (
	"context"
	"fmt"
	"sync"
	"testing"

	language "github.com/hanpama/lazygraph/internal/language"
)

// mockResolver resolves a single field value.
type mockResolver func(ctx context.Context, source any, args map[string]any) (any, error)

const (
	callKindSync  = "sync"
	callKindAsync = "async"
)

func valueResolver(val any) mockResolver {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		return val, nil
	}
}

func errorResolver(err error) mockResolver {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		return nil, err
	}
}

// call is one task-level invocation. Async calls of one flush share a BatchID.
type call struct {
	Kind       string
	ObjectType string
	Field      string
	Source     any
	Args       map[string]any
	BatchID    int // 0 for sync
}

// mockRuntime implements Runtime over a resolver table keyed "Type.field".
type mockRuntime struct {
	mu        sync.Mutex
	resolvers map[string]mockResolver
	calls     []call
	batchSeq  int

	typeResolver func(value any) (string, error)
	serializer   func(typeName string, val any) (any, error)
}

func newMockRuntime(resolvers map[string]mockResolver) *mockRuntime {
	return &mockRuntime{
		resolvers: resolvers,
		typeResolver: func(value any) (string, error) {
			if m, ok := value.(map[string]any); ok {
				if typename, ok := m["__typename"].(string); ok {
					return typename, nil
				}
			}
			return "", fmt.Errorf("cannot resolve type")
		},
		serializer: func(typeName string, val any) (any, error) {
			return val, nil
		},
	}
}

func (m *mockRuntime) ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error) {
	m.mu.Lock()
	r := m.resolvers[objectType+"."+field]
	m.calls = append(m.calls, call{Kind: callKindSync, ObjectType: objectType, Field: field, Source: source, Args: args})
	m.mu.Unlock()
	if r == nil {
		return defaultResolve(source, field), nil
	}
	return r(ctx, source, args)
}

// defaultResolve reads the field from a map source when no resolver is set.
func defaultResolve(source any, field string) any {
	if m, ok := source.(map[string]any); ok {
		return m[field]
	}
	return nil
}

func (m *mockRuntime) BatchResolveAsync(ctx context.Context, tasks []AsyncResolveTask) []AsyncResolveResult {
	m.mu.Lock()
	m.batchSeq++
	batchID := m.batchSeq
	m.mu.Unlock()

	results := make([]AsyncResolveResult, len(tasks))
	for i, t := range tasks {
		m.mu.Lock()
		r := m.resolvers[t.ObjectType+"."+t.Field]
		m.calls = append(m.calls, call{Kind: callKindAsync, ObjectType: t.ObjectType, Field: t.Field, Source: t.Source, Args: t.Args, BatchID: batchID})
		m.mu.Unlock()
		if r == nil {
			results[i] = AsyncResolveResult{Value: defaultResolve(t.Source, t.Field)}
			continue
		}
		v, err := r(ctx, t.Source, t.Args)
		results[i] = AsyncResolveResult{Value: v, Error: err}
	}
	return results
}

func (m *mockRuntime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	return m.typeResolver(value)
}

func (m *mockRuntime) SerializeLeafValue(ctx context.Context, typeName string, value any) (any, error) {
	return m.serializer(typeName, value)
}

func (m *mockRuntime) getCalls() []call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]call(nil), m.calls...)
}

func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	d, err := language.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return d
}
