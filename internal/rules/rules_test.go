package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"

	language "github.com/hanpama/lazygraph/internal/language"
)

const testSDL = `
type Query {
  user: User
}
type User {
  name: String
  friends: [User]
}
`

func validate(t *testing.T, query string, rules ...validator.Rule) gqlerror.List {
	t.Helper()
	s, err := language.LoadSchema("test", testSDL)
	require.NoError(t, err)
	doc, err := language.ParseQuery(query)
	require.NoError(t, err)
	return validator.Validate(s, doc, rules...)
}

func messages(errs gqlerror.List) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}

func TestMaxDepth(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "Within limit",
			query: `{ user { friends { name } } }`,
		},
		{
			name:  "Too deep",
			query: `query Deep { user { friends { friends { name } } } }`,
			want:  []string{"operation Deep has depth 4, exceeding the maximum of 3"},
		},
		{
			name:  "Through fragments",
			query: `{ user { ...F } } fragment F on User { friends { ... on User { friends { name } } } }`,
			want:  []string{"operation anonymous query has depth 4, exceeding the maximum of 3"},
		},
		{
			name:  "Fragment cycle terminates",
			query: `{ user { ...A } } fragment A on User { friends { ...B } } fragment B on User { name ...A }`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, messages(validate(t, tt.query, MaxDepth(3))))
		})
	}
}

func TestNoIntrospection(t *testing.T) {
	errs := validate(t, `{ __typename __schema { queryType { name } } }`, NoIntrospection)
	require.Len(t, errs, 1)
	assert.Equal(t, "GraphQL introspection is not allowed, but the query contained __schema", errs[0].Message)
	assert.Equal(t, []gqlerror.Location{{Line: 1, Column: 14}}, errs[0].Locations)

	assert.Empty(t, validate(t, `{ __typename user { name } }`, NoIntrospection))
}

func TestRequireOperationName(t *testing.T) {
	assert.Equal(t, []string{"anonymous query must be named"}, messages(validate(t, `{ user { name } }`, RequireOperationName)))
	assert.Empty(t, validate(t, `query Named { user { name } }`, RequireOperationName))
}
