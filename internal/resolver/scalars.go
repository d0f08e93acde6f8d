package resolver

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// SerializeBuiltin serializes values of the built-in scalars. Other types
// (custom scalars, enums) pass through, with fmt.Stringer values rendered as
// their string form.
func SerializeBuiltin(typeName string, value any) (any, error) {
	switch typeName {
	case "Int":
		return serializeInt(value)
	case "Float":
		return serializeFloat(value)
	case "String":
		return serializeString(value)
	case "Boolean":
		if b, ok := indirect(value).(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", value)
	case "ID":
		return serializeID(value)
	}
	if s, ok := value.(fmt.Stringer); ok {
		return s.String(), nil
	}
	return indirect(value), nil
}

// indirect dereferences non-nil pointers.
func indirect(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func serializeInt(value any) (any, error) {
	var n int64
	switch v := indirect(value).(type) {
	case int, int8, int16, int32, int64:
		n = reflect.ValueOf(v).Int()
	case uint, uint8, uint16, uint32, uint64:
		u := reflect.ValueOf(v).Uint()
		if u > math.MaxInt32 {
			return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", u)
		}
		n = int64(u)
	case float32, float64:
		f := reflect.ValueOf(v).Float()
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %v", f)
		}
		n = int64(f)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %s", v)
		}
		n = i
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %q", v)
		}
		n = i
	case bool:
		if v {
			n = 1
		}
	default:
		return nil, fmt.Errorf("Int cannot represent non-integer value: %v", value)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", n)
	}
	return int(n), nil
}

func serializeFloat(value any) (any, error) {
	switch v := indirect(value).(type) {
	case float32, float64:
		return reflect.ValueOf(v).Float(), nil
	case int, int8, int16, int32, int64:
		return float64(reflect.ValueOf(v).Int()), nil
	case uint, uint8, uint16, uint32, uint64:
		return float64(reflect.ValueOf(v).Uint()), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("Float cannot represent non numeric value: %s", v)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("Float cannot represent non numeric value: %q", v)
		}
		return f, nil
	case bool:
		if v {
			return 1.0, nil
		}
		return 0.0, nil
	}
	return nil, fmt.Errorf("Float cannot represent non numeric value: %v", value)
}

func serializeString(value any) (any, error) {
	switch v := indirect(value).(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return fmt.Sprint(v), nil
	}
	if s, ok := value.(fmt.Stringer); ok {
		return s.String(), nil
	}
	return nil, fmt.Errorf("String cannot represent value: %v", value)
}

func serializeID(value any) (any, error) {
	switch v := indirect(value).(type) {
	case string:
		return v, nil
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(v).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10), nil
	case json.Number:
		return v.String(), nil
	}
	if s, ok := value.(fmt.Stringer); ok {
		return s.String(), nil
	}
	return nil, fmt.Errorf("ID cannot represent value: %v", value)
}
