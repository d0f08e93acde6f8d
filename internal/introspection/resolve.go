package introspection

import (
	"slices"
	"strings"

	schema "github.com/hanpama/lazygraph/internal/schema"
)

// resolve reads field from an introspection value. ok is false when source
// is not one.
func (r *runtime) resolve(source any, field string, args map[string]any) (v any, ok bool) {
	switch src := source.(type) {
	case *schema.Schema:
		return r.schemaField(src, field)
	case *schema.Type:
		return r.typeField(src, field, args)
	case *schema.TypeRef:
		return r.typeRefField(src, field, args)
	case *schema.Field:
		return fieldField(src, field, args)
	case *schema.InputValue:
		return inputValueField(src, field)
	case *schema.EnumValue:
		return enumValueField(src, field)
	case *schema.Directive:
		return directiveField(src, field, args)
	}
	return nil, false
}

func (r *runtime) schemaField(s *schema.Schema, field string) (any, bool) {
	switch field {
	case "description":
		return optional(s.Description), true
	case "types":
		out := make([]*schema.Type, 0, len(s.Types))
		for _, t := range s.Types {
			out = append(out, t)
		}
		slices.SortFunc(out, func(a, b *schema.Type) int { return strings.Compare(a.Name, b.Name) })
		return out, true
	case "queryType":
		return typeOrNil(s.GetQueryType()), true
	case "mutationType":
		return typeOrNil(s.GetMutationType()), true
	case "subscriptionType":
		return typeOrNil(s.GetSubscriptionType()), true
	case "directives":
		out := make([]*schema.Directive, 0, len(s.Directives))
		for _, d := range s.Directives {
			out = append(out, d)
		}
		slices.SortFunc(out, func(a, b *schema.Directive) int { return strings.Compare(a.Name, b.Name) })
		return out, true
	}
	return nil, false
}

func (r *runtime) typeField(t *schema.Type, field string, args map[string]any) (any, bool) {
	includeDeprecated, _ := args["includeDeprecated"].(bool)
	switch field {
	case "kind":
		return string(t.Kind), true
	case "name":
		return t.Name, true
	case "description":
		return optional(t.Description), true
	case "specifiedByURL":
		if t.SpecifiedByURL == nil {
			return nil, true
		}
		return *t.SpecifiedByURL, true
	case "fields":
		if t.Kind != schema.TypeKindObject && t.Kind != schema.TypeKindInterface {
			return nil, true
		}
		return visible(t.Fields, includeDeprecated, func(f *schema.Field) bool { return f.IsDeprecated }), true
	case "interfaces":
		if t.Kind != schema.TypeKindObject && t.Kind != schema.TypeKindInterface {
			return nil, true
		}
		return r.types(t.Interfaces), true
	case "possibleTypes":
		if t.Kind != schema.TypeKindInterface && t.Kind != schema.TypeKindUnion {
			return nil, true
		}
		return r.types(t.PossibleTypes), true
	case "enumValues":
		if t.Kind != schema.TypeKindEnum {
			return nil, true
		}
		return visible(t.EnumValues, includeDeprecated, func(v *schema.EnumValue) bool { return v.IsDeprecated }), true
	case "inputFields":
		if t.Kind != schema.TypeKindInputObject {
			return nil, true
		}
		return visible(t.InputFields, includeDeprecated, func(v *schema.InputValue) bool { return v.IsDeprecated }), true
	case "isOneOf":
		if t.Kind != schema.TypeKindInputObject {
			return nil, true
		}
		return t.OneOf, true
	case "ofType":
		return nil, true
	}
	return nil, false
}

// typeRefField answers for wrapping types; named references answer as the
// type they name.
func (r *runtime) typeRefField(ref *schema.TypeRef, field string, args map[string]any) (any, bool) {
	if ref.Kind == schema.TypeRefKindNamed {
		t := r.schema.Types[ref.Named]
		if t == nil {
			return nil, true
		}
		return r.typeField(t, field, args)
	}
	switch field {
	case "kind":
		return string(ref.Kind), true
	case "ofType":
		return ref.OfType, true
	}
	return nil, true
}

func (r *runtime) types(names []string) []*schema.Type {
	out := make([]*schema.Type, 0, len(names))
	for _, name := range names {
		if t := r.schema.Types[name]; t != nil {
			out = append(out, t)
		}
	}
	return out
}

func fieldField(f *schema.Field, field string, args map[string]any) (any, bool) {
	switch field {
	case "name":
		return f.Name, true
	case "description":
		return optional(f.Description), true
	case "args":
		includeDeprecated, _ := args["includeDeprecated"].(bool)
		return visible(f.Arguments, includeDeprecated, func(v *schema.InputValue) bool { return v.IsDeprecated }), true
	case "type":
		return f.Type, true
	case "isDeprecated":
		return f.IsDeprecated, true
	case "deprecationReason":
		return reason(f.IsDeprecated, f.DeprecationReason), true
	}
	return nil, false
}

func inputValueField(v *schema.InputValue, field string) (any, bool) {
	switch field {
	case "name":
		return v.Name, true
	case "description":
		return optional(v.Description), true
	case "type":
		return v.Type, true
	case "defaultValue":
		return optional(v.DefaultLiteral), true
	case "isDeprecated":
		return v.IsDeprecated, true
	case "deprecationReason":
		return reason(v.IsDeprecated, v.DeprecationReason), true
	}
	return nil, false
}

func enumValueField(v *schema.EnumValue, field string) (any, bool) {
	switch field {
	case "name":
		return v.Name, true
	case "description":
		return optional(v.Description), true
	case "isDeprecated":
		return v.IsDeprecated, true
	case "deprecationReason":
		return reason(v.IsDeprecated, v.DeprecationReason), true
	}
	return nil, false
}

func directiveField(d *schema.Directive, field string, args map[string]any) (any, bool) {
	switch field {
	case "name":
		return d.Name, true
	case "description":
		return optional(d.Description), true
	case "isRepeatable":
		return d.IsRepeatable, true
	case "locations":
		return d.Locations, true
	case "args":
		includeDeprecated, _ := args["includeDeprecated"].(bool)
		return visible(d.Arguments, includeDeprecated, func(v *schema.InputValue) bool { return v.IsDeprecated }), true
	}
	return nil, false
}

func visible[T any](items []T, includeDeprecated bool, deprecated func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if includeDeprecated || !deprecated(it) {
			out = append(out, it)
		}
	}
	return out
}

// optional maps "" to null.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func reason(deprecated bool, why string) any {
	if !deprecated {
		return nil
	}
	return why
}

func typeOrNil(t *schema.Type) any {
	if t == nil {
		return nil
	}
	return t
}
