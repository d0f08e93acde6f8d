// Package introspection answers __schema and __type queries from the
// executable schema. The introspection types themselves come from the
// gqlparser prelude the schema was loaded with.
package introspection

import (
	"context"

	"github.com/hanpama/lazygraph/internal/executor"
	schema "github.com/hanpama/lazygraph/internal/schema"
)

// Wrap returns a runtime resolving introspection fields before delegating to
// base, and a copy of sch whose query type exposes __schema and __type.
func Wrap(base executor.Runtime, sch *schema.Schema) (executor.Runtime, *schema.Schema) {
	return &runtime{Runtime: base, schema: sch}, extend(sch)
}

func extend(original *schema.Schema) *schema.Schema {
	ext := *original
	ext.Types = make(map[string]*schema.Type, len(original.Types))
	for name, t := range original.Types {
		ext.Types[name] = t
	}
	query := original.GetQueryType()
	if query == nil || query.Field("__schema") != nil {
		return &ext
	}
	q := *query
	q.Fields = append(append([]*schema.Field(nil), query.Fields...),
		&schema.Field{
			Name:        "__schema",
			Description: "Access the current type schema of this server.",
			Type:        schema.NonNullType(schema.NamedType("__Schema")),
		},
		&schema.Field{
			Name:        "__type",
			Description: "Request the type information of a single type.",
			Arguments: []*schema.InputValue{{
				Name: "name",
				Type: schema.NonNullType(schema.NamedType("String")),
			}},
			Type: schema.NamedType("__Type"),
		},
	)
	ext.Types[q.Name] = &q
	return &ext
}

type runtime struct {
	executor.Runtime
	// schema is the user schema, without the root introspection fields.
	schema *schema.Schema
}

func (r *runtime) ResolveSync(ctx context.Context, objectType, field string, source any, args map[string]any) (any, error) {
	if objectType == r.schema.QueryType {
		switch field {
		case "__schema":
			return r.schema, nil
		case "__type":
			name, _ := args["name"].(string)
			if t := r.schema.Types[name]; t != nil {
				return t, nil
			}
			return nil, nil
		}
	}
	if v, ok := r.resolve(source, field, args); ok {
		return v, nil
	}
	return r.Runtime.ResolveSync(ctx, objectType, field, source, args)
}
