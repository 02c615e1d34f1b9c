package local

import (
	"fmt"
	"reflect"
)

// attrGet looks up a named attribute on obj: a method (value or pointer
// receiver), an exported struct field, or a string-keyed map entry.
func attrGet(obj any, name string) (any, error) {
	rv := reflect.ValueOf(obj)
	if !rv.IsValid() {
		return nil, fmt.Errorf("nil has no attribute %q", name)
	}

	if m := rv.MethodByName(name); m.IsValid() {
		return m.Interface(), nil
	}

	elem := rv
	for elem.Kind() == reflect.Pointer && !elem.IsNil() {
		elem = elem.Elem()
	}

	switch elem.Kind() {
	case reflect.Struct:
		f := elem.FieldByName(name)
		if f.IsValid() && f.CanInterface() {
			return f.Interface(), nil
		}
	case reflect.Map:
		if elem.Type().Key().Kind() == reflect.String {
			kv := reflect.ValueOf(name).Convert(elem.Type().Key())
			if v := elem.MapIndex(kv); v.IsValid() {
				return v.Interface(), nil
			}
		}
	}

	return nil, fmt.Errorf("%T has no attribute %q", obj, name)
}

// attrSet assigns a named attribute: an exported field of a struct reached
// through a pointer, or a string-keyed map entry.
func attrSet(obj any, name string, value any) error {
	rv := reflect.ValueOf(obj)
	if !rv.IsValid() {
		return fmt.Errorf("cannot set attribute %q on nil", name)
	}

	elem := rv
	for elem.Kind() == reflect.Pointer && !elem.IsNil() {
		elem = elem.Elem()
	}

	switch elem.Kind() {
	case reflect.Struct:
		f := elem.FieldByName(name)
		if !f.IsValid() {
			return fmt.Errorf("%T has no attribute %q", obj, name)
		}

		if !f.CanSet() {
			return fmt.Errorf("attribute %q of %T is not assignable; bind a pointer", name, obj)
		}

		v, err := convertValue(f.Type(), value)
		if err != nil {
			return err
		}

		f.Set(v)

		return nil
	case reflect.Map:
		if elem.Type().Key().Kind() != reflect.String {
			break
		}

		v, err := convertValue(elem.Type().Elem(), value)
		if err != nil {
			return err
		}

		kv := reflect.ValueOf(name).Convert(elem.Type().Key())
		elem.SetMapIndex(kv, v)

		return nil
	}

	return fmt.Errorf("cannot set attribute %q on %T", name, obj)
}

// attrDel removes a named attribute from a string-keyed map. Struct fields
// cannot be deleted.
func attrDel(obj any, name string) error {
	rv := reflect.ValueOf(obj)

	elem := rv
	for elem.Kind() == reflect.Pointer && !elem.IsNil() {
		elem = elem.Elem()
	}

	if elem.Kind() != reflect.Map || elem.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("cannot delete attribute %q from %T", name, obj)
	}

	kv := reflect.ValueOf(name).Convert(elem.Type().Key())
	if !elem.MapIndex(kv).IsValid() {
		return fmt.Errorf("%T has no attribute %q", obj, name)
	}

	elem.SetMapIndex(kv, reflect.Value{})

	return nil
}

// convertValue adapts v to type t: assignable values pass through,
// convertible values (numeric widening and the like) convert, nil becomes
// the zero value.
func convertValue(t reflect.Type, v any) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(v)

	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", v, t)
}

// callArgs builds the reflect argument list for calling a function of type
// t with args, validating arity and adapting each argument.
func callArgs(t reflect.Type, args []any) ([]reflect.Value, error) {
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--

		if len(args) < fixed {
			return nil, fmt.Errorf("call needs at least %d arguments, got %d", fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("call needs %d arguments, got %d", fixed, len(args))
	}

	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		var want reflect.Type
		if i < fixed {
			want = t.In(i)
		} else {
			want = t.In(t.NumIn() - 1).Elem()
		}

		v, err := convertValue(want, arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}

		in[i] = v
	}

	return in, nil
}

// sequenceIndex adapts key to a bounds-checked index into a sequence of
// length n. Negative indexes count from the end.
func sequenceIndex(n int, key any, obj any) (int, error) {
	i64, ok := toInt64(key)
	if !ok {
		return 0, fmt.Errorf("%T index must be an integer, not %T", obj, key)
	}

	i := int(i64)
	if i < 0 {
		i += n
	}

	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %d out of range for %T of length %d", i64, obj, n)
	}

	return i, nil
}
