package executor

import (
	"fmt"
	"reflect"

	language "github.com/hanpama/lazygraph/internal/language"
	schema "github.com/hanpama/lazygraph/internal/schema"
)

// completeValue completes a resolved value against the field's type.
func completeValue(state *executionState, fieldType *schema.TypeRef, fields []*language.Field, result any, path Path) any {
	if schema.IsNonNull(fieldType) {
		if isNullish(result) {
			if !state.hasErrorAtPath(path) {
				state.addFieldError(fields[0], fmt.Sprintf("Cannot return null for non-nullable field %s", pathToString(path)), path)
			}
			return nil
		}
		completed := completeValue(state, schema.Unwrap(fieldType), fields, result, path)
		if isNullish(completed) {
			// error already recorded at the original path
			return nil
		}
		return completed
	}

	if isNullish(result) {
		return nil
	}

	if schema.IsList(fieldType) {
		return completeListValue(state, fieldType, fields, result, path)
	}

	namedType := schema.GetNamedType(fieldType)
	typeObj := state.schema.Types[namedType]
	if typeObj == nil {
		state.addFieldError(fields[0], fmt.Sprintf("Unknown type: %s", namedType), path)
		return nil
	}

	switch typeObj.Kind {
	case schema.TypeKindScalar, schema.TypeKindEnum:
		return completeLeafValue(state, typeObj, fields, result, path)
	case schema.TypeKindObject:
		return completeObjectValue(state, typeObj, fields, result, path)
	case schema.TypeKindInterface, schema.TypeKindUnion:
		return completeAbstractValue(state, typeObj, fields, result, path)
	default:
		state.addFieldError(fields[0], fmt.Sprintf("Cannot complete value of unexpected type: %s", typeObj.Kind), path)
		return nil
	}
}

func completeListValue(state *executionState, listType *schema.TypeRef, fields []*language.Field, result any, path Path) any {
	var items []any
	if direct, ok := result.([]any); ok {
		items = direct
	} else {
		rv := reflect.ValueOf(result)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			state.addFieldError(fields[0], fmt.Sprintf("Expected list value, got %T", result), path)
			return nil
		}
		items = make([]any, rv.Len())
		for i := range rv.Len() {
			items[i] = rv.Index(i).Interface()
		}
	}

	inner := schema.Unwrap(listType)
	completed := make([]any, len(items))
	for i, item := range items {
		itemPath := appendPath(path, i)
		if schema.IsNonNull(inner) {
			state.markNonNull(itemPath)
		}
		v := completeValue(state, inner, fields, item, itemPath)
		if schema.IsNonNull(inner) && isNullish(v) {
			// the list itself becomes null; the item error is already recorded
			state.markNullifiedPrefix(path)
			return nil
		}
		completed[i] = v
	}
	return completed
}

func completeLeafValue(state *executionState, leafType *schema.Type, fields []*language.Field, result any, path Path) any {
	serialized, err := state.runtime.SerializeLeafValue(state.context, leafType.Name, result)
	if err != nil {
		state.addFieldError(fields[0], err.Error(), path)
		return nil
	}
	if leafType.Kind == schema.TypeKindEnum {
		name, ok := serialized.(string)
		if !ok || !leafType.HasEnumValue(name) {
			state.addFieldError(fields[0], fmt.Sprintf("Enum %q cannot represent value: %v", leafType.Name, result), path)
			return nil
		}
	}
	return serialized
}

func completeObjectValue(state *executionState, objectType *schema.Type, fields []*language.Field, result any, path Path) any {
	return executeSelectionSet(state, objectType, mergeSelectionSets(fields), result, path)
}

func completeAbstractValue(state *executionState, abstractType *schema.Type, fields []*language.Field, result any, path Path) any {
	typeName, err := state.runtime.ResolveType(state.context, abstractType.Name, result)
	if err != nil {
		state.addFieldError(fields[0], err.Error(), path)
		return nil
	}
	objectType := state.schema.Types[typeName]
	if objectType == nil || objectType.Kind != schema.TypeKindObject {
		state.addFieldError(fields[0], fmt.Sprintf("Abstract type %s must resolve to an Object type at runtime. Got: %s", abstractType.Name, typeName), path)
		return nil
	}
	if !state.schema.IsPossibleType(abstractType.Name, typeName) {
		state.addFieldError(fields[0], fmt.Sprintf("Runtime Object type %q is not a possible type for %q", typeName, abstractType.Name), path)
		return nil
	}
	return completeObjectValue(state, objectType, fields, result, path)
}

// mergeSelectionSets merges selection sets from multiple fields
func mergeSelectionSets(fields []*language.Field) language.SelectionSet {
	var merged language.SelectionSet
	for _, f := range fields {
		merged = append(merged, f.SelectionSet...)
	}
	return merged
}

// isNullish returns true for nil interfaces and typed nils (map, slice, ptr, interface)
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
