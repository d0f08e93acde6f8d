package introspection

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/lazygraph/internal/executor"
	language "github.com/hanpama/lazygraph/internal/language"
	"github.com/hanpama/lazygraph/internal/resolver"
	schema "github.com/hanpama/lazygraph/internal/schema"
)

const testSDL = `
"A person."
type User {
  id: ID!
  tags(first: Int = 10): [String!]
  old: String @deprecated(reason: "use id")
}
enum Color { RED GREEN @deprecated }
type Query {
  user: User
  color: Color
}
`

func execute(t *testing.T, query string) *executor.ExecutionResult {
	t.Helper()
	sch, _, err := schema.BuildFromSDL("test", testSDL)
	require.NoError(t, err)
	rt, ext := Wrap(resolver.New(), sch)
	doc, err := language.ParseQuery(query)
	require.NoError(t, err)
	return executor.NewExecutor(rt, ext).ExecuteRequest(context.Background(), executor.Request{
		Document:  doc,
		RootValue: map[string]any{"color": "RED"},
	})
}

func TestSchemaRoots(t *testing.T) {
	res := execute(t, `{ __schema { queryType { name kind } mutationType { name } } color }`)
	require.Empty(t, res.Errors)

	want := map[string]any{
		"__schema": map[string]any{
			"queryType":    map[string]any{"name": "Query", "kind": "OBJECT"},
			"mutationType": nil,
		},
		"color": "RED",
	}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaTypes(t *testing.T) {
	res := execute(t, `{ __schema { types { name } directives { name } } }`)
	require.Empty(t, res.Errors)

	var names []string
	for _, v := range res.Data.(map[string]any)["__schema"].(map[string]any)["types"].([]any) {
		names = append(names, v.(map[string]any)["name"].(string))
	}
	assert.Contains(t, names, "User")
	assert.Contains(t, names, "__Schema")
	assert.IsNonDecreasing(t, names)
}

func TestTypeLookup(t *testing.T) {
	res := execute(t, `{
  __type(name: "User") {
    kind name description
    fields { name deprecationReason type { kind name ofType { kind name ofType { kind name } } } args { name defaultValue } }
  }
}`)
	require.Empty(t, res.Errors)

	want := map[string]any{"__type": map[string]any{
		"kind":        "OBJECT",
		"name":        "User",
		"description": "A person.",
		"fields": []any{
			map[string]any{
				"name":              "id",
				"deprecationReason": nil,
				"type": map[string]any{"kind": "NON_NULL", "name": nil, "ofType": map[string]any{
					"kind": "SCALAR", "name": "ID", "ofType": nil,
				}},
				"args": []any{},
			},
			map[string]any{
				"name":              "tags",
				"deprecationReason": nil,
				"type": map[string]any{"kind": "LIST", "name": nil, "ofType": map[string]any{
					"kind": "NON_NULL", "name": nil, "ofType": map[string]any{"kind": "SCALAR", "name": "String"},
				}},
				"args": []any{map[string]any{"name": "first", "defaultValue": "10"}},
			},
		},
	}}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestDeprecatedValues(t *testing.T) {
	res := execute(t, `{
  all: __type(name: "Color") { enumValues(includeDeprecated: true) { name isDeprecated } }
  current: __type(name: "Color") { enumValues { name } }
  missing: __type(name: "Nope") { name }
}`)
	require.Empty(t, res.Errors)

	want := map[string]any{
		"all": map[string]any{"enumValues": []any{
			map[string]any{"name": "RED", "isDeprecated": false},
			map[string]any{"name": "GREEN", "isDeprecated": true},
		}},
		"current": map[string]any{"enumValues": []any{map[string]any{"name": "RED"}}},
		"missing": nil,
	}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapKeepsOriginalSchema(t *testing.T) {
	sch, _, err := schema.BuildFromSDL("test", testSDL)
	require.NoError(t, err)
	_, ext := Wrap(resolver.New(), sch)

	assert.Nil(t, sch.GetQueryType().Field("__schema"))
	assert.NotNil(t, ext.GetQueryType().Field("__schema"))
	assert.NotNil(t, ext.GetQueryType().Field("__type"))
	assert.Same(t, sch.Types["User"], ext.Types["User"])
}

func TestQueryTypeFieldsOmitMetaFields(t *testing.T) {
	res := execute(t, `{ __type(name: "Query") { fields { name } } }`)
	require.Empty(t, res.Errors)

	want := map[string]any{"__type": map[string]any{"fields": []any{
		map[string]any{"name": "user"},
		map[string]any{"name": "color"},
	}}}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}
