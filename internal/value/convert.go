package value

import (
	"reflect"
	"sort"

	"github.com/pkg/errors"
)

// FromGo converts a host Go value into a Value. Maps with string keys become
// ordered maps with sorted keys, slices become arrays, and functions of type
// Impl become native functions. Unsupported kinds yield an error.
func FromGo(x interface{}) (Value, error) {
	switch v := x.(type) {
	case nil:
		return nil, nil
	case Value:
		return v, nil
	case Impl:
		return NewFunc("", 0, nil, v), nil
	case func([]Value) (Value, error):
		return NewFunc("", 0, nil, v), nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case float64:
		return Real(v), nil
	case float32:
		return Real(v), nil
	case int:
		return Real(v), nil
	case int64:
		return Real(v), nil
	case complex128:
		return Complex(v), nil
	case []interface{}:
		arr := NewArray()
		for i, e := range v {
			ev, err := FromGo(e)
			if err != nil {
				return nil, errors.Wrapf(err, "index %d", i)
			}
			arr.Push(ev)
		}
		return arr, nil
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			ev, err := FromGo(v[k])
			if err != nil {
				return nil, errors.Wrapf(err, "key %q", k)
			}
			m.Set(k, ev)
		}
		return m, nil
	}
	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Real(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Real(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Real(rv.Float()), nil
	case reflect.Complex64, reflect.Complex128:
		return Complex(rv.Complex()), nil
	case reflect.Slice, reflect.Array:
		elems := make([]interface{}, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return FromGo(elems)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, errors.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		m := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return FromGo(m)
	}
	return nil, errors.Errorf("unsupported host value of type %s", rv.Type())
}
