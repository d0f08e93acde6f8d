package executor

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	language "github.com/hanpama/lazygraph/internal/language"
	schema "github.com/hanpama/lazygraph/internal/schema"
)

// coerceVariableValues coerces the provided variables against the
// operation's variable definitions.
func coerceVariableValues(
	sch *schema.Schema,
	operation *language.OperationDefinition,
	variableValues map[string]any,
) (map[string]any, error) {
	coerced := make(map[string]any, len(operation.VariableDefinitions))
	for _, varDef := range operation.VariableDefinitions {
		name := varDef.Variable
		t := varDef.Type
		val, ok := variableValues[name]
		if !ok {
			if varDef.DefaultValue != nil {
				cv, err := coerceValue(sch, astValueToGo(varDef.DefaultValue), schema.BuildTypeRef(t))
				if err != nil {
					return nil, fmt.Errorf("variable $%s has invalid default value: %v", name, err)
				}
				coerced[name] = cv
				continue
			}
			if t.NonNull {
				return nil, fmt.Errorf("variable $%s of required type %s was not provided", name, t.String())
			}
			continue
		}
		if val == nil && t.NonNull {
			return nil, fmt.Errorf("variable $%s of non-null type %s must not be null", name, t.String())
		}
		cv, err := coerceValue(sch, val, schema.BuildTypeRef(t))
		if err != nil {
			return nil, fmt.Errorf("variable $%s got invalid value %s: %v", name, describeValue(val), err)
		}
		coerced[name] = cv
	}
	return coerced, nil
}

// coerceArgumentValues coerces the field's arguments. It records an error and
// reports false when a required argument is missing or a value is invalid.
func coerceArgumentValues(state *executionState, fieldDef *schema.Field, field *language.Field, path Path) (map[string]any, bool) {
	coerced := make(map[string]any, len(fieldDef.Arguments))
	for _, argDef := range fieldDef.Arguments {
		name := argDef.Name
		arg := field.Arguments.ForName(name)

		provided := arg != nil
		if provided && arg.Value.Kind == language.Variable {
			_, provided = state.variableValues[arg.Value.Raw]
		}
		if !provided {
			if argDef.DefaultValue != nil {
				cv, err := coerceValue(state.schema, argDef.DefaultValue, argDef.Type)
				if err != nil {
					state.addFieldError(field, fmt.Sprintf("argument %q has invalid default value: %v", name, err), path)
					return nil, false
				}
				coerced[name] = cv
			} else if schema.IsNonNull(argDef.Type) {
				state.addFieldError(field, fmt.Sprintf("argument %q of required type %s was not provided", name, argDef.Type), path)
				return nil, false
			}
			continue
		}

		val := valueFromASTWithVars(arg.Value, state.variableValues)
		cv, err := coerceValue(state.schema, val, argDef.Type)
		if err != nil {
			state.addFieldError(field, fmt.Sprintf("argument %q has invalid value %s: %v", name, describeValue(val), err), path)
			return nil, false
		}
		coerced[name] = cv
	}
	return coerced, true
}

// valueFromASTWithVars converts an AST value to a runtime value with variable substitution
func valueFromASTWithVars(value *language.Value, variableValues map[string]any) any {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case language.Variable:
		return variableValues[value.Raw]
	case language.ListValue:
		out := make([]any, len(value.Children))
		for i, c := range value.Children {
			out[i] = valueFromASTWithVars(c.Value, variableValues)
		}
		return out
	case language.ObjectValue:
		m := make(map[string]any, len(value.Children))
		for _, f := range value.Children {
			if f.Value.Kind == language.Variable {
				if _, ok := variableValues[f.Value.Raw]; !ok {
					continue
				}
			}
			m[f.Name] = valueFromASTWithVars(f.Value, variableValues)
		}
		return m
	default:
		return astValueToGo(value)
	}
}

// astValueToGo converts a constant AST value to a Go value
func astValueToGo(value *language.Value) any {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case language.IntValue:
		iv, err := strconv.Atoi(value.Raw)
		if err != nil {
			return value.Raw
		}
		return iv
	case language.FloatValue:
		fv, _ := strconv.ParseFloat(value.Raw, 64)
		return fv
	case language.StringValue, language.BlockValue, language.EnumValue:
		return value.Raw
	case language.BooleanValue:
		return value.Raw == "true"
	case language.ListValue:
		out := make([]any, len(value.Children))
		for i, c := range value.Children {
			out[i] = astValueToGo(c.Value)
		}
		return out
	case language.ObjectValue:
		m := make(map[string]any, len(value.Children))
		for _, f := range value.Children {
			m[f.Name] = astValueToGo(f.Value)
		}
		return m
	default:
		return nil
	}
}

// coerceValue coerces a value to the specified GraphQL input type
func coerceValue(sch *schema.Schema, value any, targetType *schema.TypeRef) (any, error) {
	if schema.IsNonNull(targetType) {
		if value == nil {
			return nil, fmt.Errorf("expected non-null value of type %s", targetType)
		}
		return coerceValue(sch, value, schema.Unwrap(targetType))
	}
	if value == nil {
		return nil, nil
	}

	if targetType.Kind == schema.TypeRefKindList {
		inner := schema.Unwrap(targetType)
		items, ok := value.([]any)
		if !ok {
			// a single value becomes a list of one
			item, err := coerceValue(sch, value, inner)
			if err != nil {
				return nil, err
			}
			return []any{item}, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			cv, err := coerceValue(sch, item, inner)
			if err != nil {
				return nil, fmt.Errorf("at index %d: %w", i, err)
			}
			out[i] = cv
		}
		return out, nil
	}

	namedType := targetType.GetNamedType()
	switch namedType {
	case "Int":
		return coerceToInt(value)
	case "Float":
		return coerceToFloat(value)
	case "String":
		return coerceToString(value)
	case "Boolean":
		return coerceToBoolean(value)
	case "ID":
		return coerceToID(value)
	}

	t := sch.Types[namedType]
	if t == nil {
		return nil, fmt.Errorf("unknown type %s", namedType)
	}
	switch t.Kind {
	case schema.TypeKindEnum:
		name, ok := value.(string)
		if !ok || !t.HasEnumValue(name) {
			return nil, fmt.Errorf("value %s does not exist in %q enum", describeValue(value), t.Name)
		}
		return name, nil
	case schema.TypeKindInputObject:
		return coerceInputObject(sch, t, value)
	default:
		// custom scalars pass through unchanged
		return value, nil
	}
}

func coerceInputObject(sch *schema.Schema, t *schema.Type, value any) (any, error) {
	fields, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object for input type %s, got %T", t.Name, value)
	}
	known := make(map[string]bool, len(t.InputFields))
	out := make(map[string]any, len(t.InputFields))
	for _, def := range t.InputFields {
		known[def.Name] = true
		v, present := fields[def.Name]
		if !present {
			if def.DefaultValue != nil {
				cv, err := coerceValue(sch, def.DefaultValue, def.Type)
				if err != nil {
					return nil, fmt.Errorf("field %s.%s default: %w", t.Name, def.Name, err)
				}
				out[def.Name] = cv
			} else if schema.IsNonNull(def.Type) {
				return nil, fmt.Errorf("field %s.%s of required type %s was not provided", t.Name, def.Name, def.Type)
			}
			continue
		}
		cv, err := coerceValue(sch, v, def.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t.Name, def.Name, err)
		}
		out[def.Name] = cv
	}
	for name := range fields {
		if !known[name] {
			return nil, fmt.Errorf("field %q is not defined by type %s", name, t.Name)
		}
	}
	if t.OneOf && len(out) != 1 {
		return nil, fmt.Errorf("oneOf input object %s must specify exactly one field", t.Name)
	}
	return out, nil
}

func coerceToInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", v)
		}
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return coerceToInt(int(v))
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %v", v)
		}
		return coerceToInt(int(v))
	case float32:
		return coerceToInt(float64(v))
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %s", v)
		}
		return coerceToInt(int(i))
	}
	return nil, fmt.Errorf("Int cannot represent non-integer value: %s", describeValue(value))
}

func coerceToFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("Float cannot represent non numeric value: %s", v)
		}
		return f, nil
	}
	return nil, fmt.Errorf("Float cannot represent non numeric value: %s", describeValue(value))
}

func coerceToString(value any) (any, error) {
	if v, ok := value.(string); ok {
		return v, nil
	}
	return nil, fmt.Errorf("String cannot represent a non string value: %s", describeValue(value))
}

func coerceToBoolean(value any) (any, error) {
	if v, ok := value.(bool); ok {
		return v, nil
	}
	return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %s", describeValue(value))
}

func coerceToID(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10), nil
		}
	case json.Number:
		return v.String(), nil
	}
	return nil, fmt.Errorf("ID cannot represent value: %s", describeValue(value))
}

func describeValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
