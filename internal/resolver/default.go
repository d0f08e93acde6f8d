package resolver

import (
	"reflect"
	"strings"
)

// Typenamer lets a value name its own GraphQL object type.
type Typenamer interface {
	GraphQLTypename() string
}

// DefaultResolve reads field from source. Maps are indexed by key; structs
// are matched by json tag first, then by exported field name with the first
// letter upper-cased. A missing property resolves to nil.
func DefaultResolve(source any, field string) (any, error) {
	if source == nil {
		return nil, nil
	}
	if m, ok := source.(map[string]any); ok {
		return m[field], nil
	}

	rv := reflect.ValueOf(source)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, nil
		}
		v := rv.MapIndex(reflect.ValueOf(field).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, nil
		}
		return v.Interface(), nil
	case reflect.Struct:
		if v, ok := structField(rv, field); ok {
			return v, nil
		}
	}
	return nil, nil
}

func structField(rv reflect.Value, field string) (any, bool) {
	rt := rv.Type()
	exported := strings.ToUpper(field[:1]) + field[1:]
	byName := -1
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		if tag, ok := sf.Tag.Lookup("json"); ok {
			name, _, _ := strings.Cut(tag, ",")
			if name == field {
				return rv.Field(i).Interface(), true
			}
			if name != "" {
				continue
			}
		}
		if sf.Name == exported && byName < 0 {
			byName = i
		}
	}
	if byName >= 0 {
		return rv.Field(byName).Interface(), true
	}
	return nil, false
}

// DefaultTypename reads the concrete type name of value from a
// "__typename" property or the Typenamer interface.
func DefaultTypename(value any) (string, bool) {
	if t, ok := value.(Typenamer); ok {
		return t.GraphQLTypename(), true
	}
	v, _ := DefaultResolve(value, "__typename")
	name, ok := v.(string)
	return name, ok && name != ""
}
