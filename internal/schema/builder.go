package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	language "github.com/hanpama/lazygraph/internal/language"
)

// BuildOption customizes BuildFromAST.
type BuildOption func(*buildConfig)

type buildConfig struct {
	async func(objectType, field string) bool
}

// WithAsyncFields marks the fields for which fn returns true as asynchronous,
// so the executor batches them per depth instead of resolving them inline.
func WithAsyncFields(fn func(objectType, field string) bool) BuildOption {
	return func(c *buildConfig) { c.async = fn }
}

// BuildFromSDL loads SDL through gqlparser and returns the executable schema
// together with the validated source schema.
func BuildFromSDL(name, sdl string, opts ...BuildOption) (*Schema, *language.Schema, error) {
	src, err := language.LoadSchema(name, sdl)
	if err != nil {
		return nil, nil, err
	}
	s, err := BuildFromAST(src, opts...)
	if err != nil {
		return nil, nil, err
	}
	return s, src, nil
}

// BuildFromAST converts a validated gqlparser schema into the executable
// model. Fields, arguments and enum values keep their declaration order.
func BuildFromAST(src *language.Schema, opts ...BuildOption) (*Schema, error) {
	if src == nil {
		return nil, fmt.Errorf("build schema: nil source schema")
	}
	cfg := buildConfig{async: func(string, string) bool { return false }}
	for _, o := range opts {
		o(&cfg)
	}

	s := &Schema{
		Types:       make(map[string]*Type, len(src.Types)),
		Directives:  make(map[string]*Directive, len(src.Directives)),
		Description: src.Description,
	}
	if src.Query != nil {
		s.QueryType = src.Query.Name
	}
	if src.Mutation != nil {
		s.MutationType = src.Mutation.Name
	}
	if src.Subscription != nil {
		s.SubscriptionType = src.Subscription.Name
	}

	for name, def := range src.Types {
		t, err := buildType(def, cfg)
		if err != nil {
			return nil, fmt.Errorf("build type %s: %w", name, err)
		}
		s.Types[name] = t
	}
	for name, possible := range src.PossibleTypes {
		t := s.Types[name]
		if t == nil || (t.Kind != TypeKindInterface && t.Kind != TypeKindUnion) {
			continue
		}
		if t.Kind == TypeKindUnion && len(t.PossibleTypes) > 0 {
			continue
		}
		for _, def := range possible {
			t.PossibleTypes = append(t.PossibleTypes, def.Name)
		}
		sort.Strings(t.PossibleTypes)
	}
	for name, def := range src.Directives {
		d, err := buildDirective(def)
		if err != nil {
			return nil, fmt.Errorf("build directive @%s: %w", name, err)
		}
		s.Directives[name] = d
	}
	return s, nil
}

func buildType(def *ast.Definition, cfg buildConfig) (*Type, error) {
	t := &Type{Name: def.Name, Description: def.Description}
	switch def.Kind {
	case ast.Scalar:
		t.Kind = TypeKindScalar
		if d := def.Directives.ForName("specifiedBy"); d != nil {
			if arg := d.Arguments.ForName("url"); arg != nil && arg.Value != nil {
				url := arg.Value.Raw
				t.SpecifiedByURL = &url
			}
		}
	case ast.Object, ast.Interface:
		t.Kind = TypeKindObject
		if def.Kind == ast.Interface {
			t.Kind = TypeKindInterface
		}
		t.Interfaces = append(t.Interfaces, def.Interfaces...)
		for _, fd := range def.Fields {
			// Meta fields the parser injects are served by the introspection layer.
			if strings.HasPrefix(fd.Name, "__") {
				continue
			}
			f, err := buildField(def.Name, fd, cfg)
			if err != nil {
				return nil, err
			}
			t.Fields = append(t.Fields, f)
		}
	case ast.Union:
		t.Kind = TypeKindUnion
		t.PossibleTypes = append(t.PossibleTypes, def.Types...)
	case ast.Enum:
		t.Kind = TypeKindEnum
		for _, ev := range def.EnumValues {
			v := &EnumValue{Name: ev.Name, Description: ev.Description}
			v.IsDeprecated, v.DeprecationReason = deprecation(ev.Directives)
			t.EnumValues = append(t.EnumValues, v)
		}
	case ast.InputObject:
		t.Kind = TypeKindInputObject
		t.OneOf = def.Directives.ForName("oneOf") != nil
		for _, fd := range def.Fields {
			in, err := buildInputValue(fd.Name, fd.Description, fd.Type, fd.DefaultValue, fd.Directives)
			if err != nil {
				return nil, err
			}
			t.InputFields = append(t.InputFields, in)
		}
	default:
		return nil, fmt.Errorf("unsupported definition kind %q", def.Kind)
	}
	return t, nil
}

func buildField(typeName string, fd *ast.FieldDefinition, cfg buildConfig) (*Field, error) {
	f := &Field{
		Name:        fd.Name,
		Description: fd.Description,
		Type:        buildTypeRef(fd.Type),
		Async:       cfg.async(typeName, fd.Name),
	}
	f.IsDeprecated, f.DeprecationReason = deprecation(fd.Directives)
	for _, ad := range fd.Arguments {
		in, err := buildInputValue(ad.Name, ad.Description, ad.Type, ad.DefaultValue, ad.Directives)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", typeName, fd.Name, err)
		}
		f.Arguments = append(f.Arguments, in)
	}
	return f, nil
}

func buildInputValue(name, description string, typ *ast.Type, def *ast.Value, dirs ast.DirectiveList) (*InputValue, error) {
	in := &InputValue{Name: name, Description: description, Type: buildTypeRef(typ)}
	if def != nil {
		v, err := def.Value(nil)
		if err != nil {
			return nil, fmt.Errorf("default value of %s: %w", name, err)
		}
		in.DefaultValue = v
		in.DefaultLiteral = def.String()
	}
	in.IsDeprecated, in.DeprecationReason = deprecation(dirs)
	return in, nil
}

func buildDirective(def *ast.DirectiveDefinition) (*Directive, error) {
	d := &Directive{Name: def.Name, Description: def.Description, IsRepeatable: def.IsRepeatable}
	for _, loc := range def.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, ad := range def.Arguments {
		in, err := buildInputValue(ad.Name, ad.Description, ad.Type, ad.DefaultValue, ad.Directives)
		if err != nil {
			return nil, err
		}
		d.Arguments = append(d.Arguments, in)
	}
	return d, nil
}

// BuildTypeRef converts a gqlparser type expression into a TypeRef.
func BuildTypeRef(t *ast.Type) *TypeRef { return buildTypeRef(t) }

func buildTypeRef(t *ast.Type) *TypeRef {
	if t == nil {
		return nil
	}
	var ref *TypeRef
	if t.Elem != nil {
		ref = ListType(buildTypeRef(t.Elem))
	} else {
		ref = NamedType(t.NamedType)
	}
	if t.NonNull {
		return NonNullType(ref)
	}
	return ref
}

func deprecation(dirs ast.DirectiveList) (bool, string) {
	d := dirs.ForName("deprecated")
	if d == nil {
		return false, ""
	}
	reason := "No longer supported"
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		reason = arg.Value.Raw
	}
	return true, reason
}
