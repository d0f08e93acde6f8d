package executor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	language "github.com/hanpama/lazygraph/internal/language"
	schema "github.com/hanpama/lazygraph/internal/schema"
)

const inputSDL = `
enum Color { RED GREEN }
input FilterInput {
  required: String!
  optional: Int
  limit: Int = 10
  color: Color
}
type Query { search(filter: FilterInput): String }
`

func operationOf(t *testing.T, q string) *language.OperationDefinition {
	t.Helper()
	return mustParseQuery(t, q).Operations[0]
}

func TestCoerceVariableValues_InputObject(t *testing.T) {
	sch, _, err := schema.BuildFromSDL("input", inputSDL)
	require.NoError(t, err)
	op := operationOf(t, `query($input: FilterInput!) { search(filter: $input) }`)

	t.Run("Defaults applied", func(t *testing.T) {
		got, err := coerceVariableValues(sch, op, map[string]any{
			"input": map[string]any{"required": "x", "color": "RED"},
		})
		require.NoError(t, err)
		require.Equal(t, map[string]any{
			"input": map[string]any{"required": "x", "limit": 10, "color": "RED"},
		}, got)
	})

	t.Run("Missing required field", func(t *testing.T) {
		_, err := coerceVariableValues(sch, op, map[string]any{
			"input": map[string]any{"optional": 10},
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), "FilterInput.required of required type String! was not provided")
	})

	t.Run("Unknown field", func(t *testing.T) {
		_, err := coerceVariableValues(sch, op, map[string]any{
			"input": map[string]any{"required": "x", "extra": true},
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), `field "extra" is not defined by type FilterInput`)
	})

	t.Run("Undeclared enum value", func(t *testing.T) {
		_, err := coerceVariableValues(sch, op, map[string]any{
			"input": map[string]any{"required": "x", "color": "BLUE"},
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), `does not exist in "Color" enum`)
	})

	t.Run("Null for non-null variable", func(t *testing.T) {
		_, err := coerceVariableValues(sch, op, map[string]any{"input": nil})
		require.EqualError(t, err, "variable $input of non-null type FilterInput! must not be null")
	})
}

func TestCoerceVariableValues_Scalars(t *testing.T) {
	sch, _, err := schema.BuildFromSDL("input", inputSDL)
	require.NoError(t, err)

	tests := []struct {
		name    string
		query   string
		vars    map[string]any
		want    map[string]any
		wantErr string
	}{
		{
			name:  "Int from JSON float",
			query: `query($n: Int) { search }`,
			vars:  map[string]any{"n": 42.0},
			want:  map[string]any{"n": 42},
		},
		{
			name:  "Int from json.Number",
			query: `query($n: Int) { search }`,
			vars:  map[string]any{"n": json.Number("7")},
			want:  map[string]any{"n": 7},
		},
		{
			name:    "Int rejects string",
			query:   `query($n: Int!) { search }`,
			vars:    map[string]any{"n": "42"},
			wantErr: `variable $n got invalid value "42": Int cannot represent non-integer value: "42"`,
		},
		{
			name:    "Int rejects fraction",
			query:   `query($n: Int!) { search }`,
			vars:    map[string]any{"n": 1.5},
			wantErr: "Int cannot represent non-integer value: 1.5",
		},
		{
			name:  "Float from int",
			query: `query($f: Float) { search }`,
			vars:  map[string]any{"f": 2},
			want:  map[string]any{"f": 2.0},
		},
		{
			name:  "ID from int",
			query: `query($id: ID) { search }`,
			vars:  map[string]any{"id": 12},
			want:  map[string]any{"id": "12"},
		},
		{
			name:  "List from single value",
			query: `query($ids: [ID!]) { search }`,
			vars:  map[string]any{"ids": "a"},
			want:  map[string]any{"ids": []any{"a"}},
		},
		{
			name:  "Default used when omitted",
			query: `query($n: Int = 5) { search }`,
			vars:  map[string]any{},
			want:  map[string]any{"n": 5},
		},
		{
			name:  "Optional omitted",
			query: `query($n: Int) { search }`,
			vars:  nil,
			want:  map[string]any{},
		},
		{
			name:    "Required omitted",
			query:   `query($age: Int!) { search }`,
			vars:    nil,
			wantErr: "variable $age of required type Int! was not provided",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceVariableValues(sch, operationOf(t, tt.query), tt.vars)
			if tt.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValueFromASTWithVars(t *testing.T) {
	doc := mustParseQuery(t, `{ f(a: [1, 2.5, "s", true, RED, null], o: {x: $x, y: $missing}) }`)
	args := doc.Operations[0].SelectionSet[0].(*language.Field).Arguments

	vars := map[string]any{"x": "from-var"}
	require.Equal(t, []any{1, 2.5, "s", true, "RED", nil}, valueFromASTWithVars(args.ForName("a").Value, vars))
	require.Equal(t, map[string]any{"x": "from-var"}, valueFromASTWithVars(args.ForName("o").Value, vars))
}
