package executor

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	schema "github.com/hanpama/lazygraph/internal/schema"
)

// collectedNames flattens collected fields to response name -> field count.
func collectedNames(cfm *collectedFieldMap) [][2]any {
	var out [][2]any
	for _, f := range cfm.orderedFields() {
		out = append(out, [2]any{f.ResponseName, len(f.Fields)})
	}
	return out
}

// Pattern: Result comparison
func TestCollectFields_Result(t *testing.T) {
	sch := queryOnlySchema(stringField("a", false), stringField("b", false), stringField("c", false))

	tests := []struct {
		name  string
		query string
		vars  map[string]any
		want  [][2]any
	}{
		{
			name: "Fragment merging and typename",
			query: `{ a ...F1 ...F2 }
			fragment F1 on Query { a __typename }
			fragment F2 on Query { __typename }`,
			want: [][2]any{{"a", 2}, {"__typename", 2}},
		},
		{
			name:  "Aliases keep separate response names",
			query: `{ x: a y: a a }`,
			want:  [][2]any{{"x", 1}, {"y", 1}, {"a", 1}},
		},
		{
			name:  "Directives on fields",
			query: `{ a b @skip(if: true) c @include(if: false) }`,
			want:  [][2]any{{"a", 1}},
		},
		{
			name: "Directives on fragment spreads",
			query: `{ a ...Frag1 @include(if: true) ...Frag2 @skip(if: true) }
			fragment Frag1 on Query { b }
			fragment Frag2 on Query { c }`,
			want: [][2]any{{"a", 1}, {"b", 1}},
		},
		{
			name:  "Directives on inline fragments",
			query: `{ a ... on Query @include(if: true) { b } ... @skip(if: true) { c } }`,
			want:  [][2]any{{"a", 1}, {"b", 1}},
		},
		{
			name:  "Directive arguments from variables",
			query: `query($on: Boolean!) { a @include(if: $on) b @skip(if: $on) }`,
			vars:  map[string]any{"on": false},
			want:  [][2]any{{"b", 1}},
		},
		{
			name: "Fragment spread visited once",
			query: `{ ...F ...F }
			fragment F on Query { a }`,
			want: [][2]any{{"a", 1}},
		},
		{
			name:  "Non-matching type condition",
			query: `{ a ... on Other { b } }`,
			want:  [][2]any{{"a", 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParseQuery(t, tt.query)
			vars := tt.vars
			if vars == nil {
				vars = map[string]any{}
			}
			state := &executionState{schema: sch, document: doc, variableValues: vars}
			got := collectedNames(collectFields(state, sch.Types["Query"], doc.Operations[0].SelectionSet))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("collected fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsPossibleType(t *testing.T) {
	sch, _, err := schema.BuildFromSDL("abstract", abstractSDL)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	cases := []struct {
		condition, object string
		want              bool
	}{
		{"", "User", true},
		{"User", "User", true},
		{"Post", "User", false},
		{"Node", "User", true},
		{"Item", "Post", true},
		{"Item", "Query", false},
		{"Missing", "User", false},
	}
	for _, c := range cases {
		if got := sch.IsPossibleType(c.condition, c.object); got != c.want {
			t.Errorf("IsPossibleType(%q, %q) = %v, want %v", c.condition, c.object, got, c.want)
		}
	}
}
